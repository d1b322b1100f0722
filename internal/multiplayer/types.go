// Package multiplayer runs online air-hockey matches between two sessions.
// A coordinator pairs sessions through lobby codes and an authoritative
// match loop steps the game and broadcasts snapshots to both sides.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies an online match.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// OnlineGame is the part of a game the match loop drives.
type OnlineGame interface {
	// Reset starts a new match.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick using input from both sides.
	Step(in core.MultiInputFrame) core.StepResult

	// State returns the current score and outcome.
	State() core.GameState

	// Snapshot returns the current state for network transmission.
	Snapshot() GameSnapshot
}

// GameSnapshot is the interface for game-specific snapshot data.
type GameSnapshot interface {
	IsGameSnapshot() // Marker method for type safety
}

// MatchResult contains the outcome of a completed match.
type MatchResult struct {
	MatchID    MatchID
	Reason     MatchEndReason
	Result     match.Result
	LeftGoals  uint32
	RightGoals uint32
	Ticks      uint64
}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // Decided by the match rules
	MatchEndReasonDisconnect                       // Opponent disconnected
	MatchEndReasonCancelled                        // Match was cancelled
	MatchEndReasonHostLeft                         // Host left the lobby
	MatchEndReasonJoinerLeft                       // Joiner left the lobby
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// Key returns the short form stored in match history.
func (r MatchEndReason) Key() string {
	switch r {
	case MatchEndReasonCompleted:
		return "completed"
	case MatchEndReasonDisconnect:
		return "disconnect"
	case MatchEndReasonCancelled:
		return "cancelled"
	case MatchEndReasonHostLeft:
		return "host_left"
	case MatchEndReasonJoinerLeft:
		return "joiner_left"
	default:
		return "unknown"
	}
}
