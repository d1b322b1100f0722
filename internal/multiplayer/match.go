package multiplayer

import (
	"sync"
	"time"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// OnlineMatch is an authoritative match between two sessions. The host
// plays the left side and the joiner the right side.
type OnlineMatch struct {
	id       MatchID
	code     string
	gameID   string
	settings match.Settings
	game     OnlineGame

	sessions [2]SessionHandle // Indexed by match.Player

	// Input handling
	inputMu   sync.Mutex
	lastInput [2]core.InputFrame
	inputChan chan playerInput

	// Match state
	tick     uint64
	tickRate int
	started  time.Time
	done     chan struct{}
	doneOnce sync.Once

	// Disconnect handling
	disconnectChan chan SessionID
}

type playerInput struct {
	player match.Player
	input  core.InputFrame
}

// NewOnlineMatch creates a new online match around a game that has already
// been reset.
func NewOnlineMatch(
	id MatchID,
	code string,
	gameID string,
	settings match.Settings,
	game OnlineGame,
	left, right SessionHandle,
	tickRate int,
) *OnlineMatch {
	return &OnlineMatch{
		id:             id,
		code:           code,
		gameID:         gameID,
		settings:       settings,
		game:           game,
		sessions:       [2]SessionHandle{left, right},
		lastInput:      [2]core.InputFrame{core.NewInputFrame(), core.NewInputFrame()},
		inputChan:      make(chan playerInput, 64),
		tickRate:       max(1, tickRate),
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// GameID returns the game identifier.
func (m *OnlineMatch) GameID() string {
	return m.gameID
}

// Settings returns the match settings chosen by the host.
func (m *OnlineMatch) Settings() match.Settings {
	return m.settings
}

// Session returns the session playing the given side.
func (m *OnlineMatch) Session(p match.Player) SessionHandle {
	return m.sessions[p]
}

// SideOf returns the side a session plays.
func (m *OnlineMatch) SideOf(id SessionID) (match.Player, bool) {
	for _, p := range match.Players {
		if m.sessions[p].ID() == id {
			return p, true
		}
	}
	return 0, false
}

// SendInput sends player input to the match.
// Non-blocking, uses a buffered channel.
func (m *OnlineMatch) SendInput(player match.Player, input core.InputFrame) {
	if !player.Valid() {
		return
	}
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
		// Channel full, drop input (rare under normal conditions)
	}
}

// PlayerDisconnected signals that a player has disconnected.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the authoritative match loop.
// The callback is called when the match ends.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	m.started = time.Now()
	ticker := time.NewTicker(time.Second / time.Duration(m.tickRate))
	defer ticker.Stop()

	// Monitor session disconnects
	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, done := m.runTick()
			if done {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	// Inputs are consumed by this tick.
	m.inputMu.Lock()
	in := core.NewMultiInputFrame()
	for _, p := range match.Players {
		in.SetPlayer(p, m.lastInput[p].Clone())
		m.lastInput[p].Clear()
	}
	m.inputMu.Unlock()

	res := m.game.Step(in)
	m.tick++

	evt := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	for _, s := range m.sessions {
		s.Send(evt)
	}

	if !res.State.Finished {
		return MatchResult{}, false
	}
	return MatchResult{
		MatchID:    m.id,
		Reason:     MatchEndReasonCompleted,
		Result:     res.State.Result,
		LeftGoals:  res.State.LeftGoals,
		RightGoals: res.State.RightGoals,
		Ticks:      m.tick,
	}, true
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			// OR together everything pressed since the last tick.
			m.lastInput[pi.player].Merge(pi.input)
		default:
			return
		}
	}
}

// handleDisconnect awards the match to the side that stayed.
func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	st := m.game.State()
	result := MatchResult{
		MatchID:    m.id,
		Reason:     MatchEndReasonDisconnect,
		Result:     st.Result,
		LeftGoals:  st.LeftGoals,
		RightGoals: st.RightGoals,
		Ticks:      m.tick,
	}
	if side, ok := m.SideOf(sessionID); ok {
		result.Result = match.WinFor(side.Opponent())
	}
	return result
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.sessions[match.LeftPlayer].Done():
		m.PlayerDisconnected(m.sessions[match.LeftPlayer].ID())
	case <-m.sessions[match.RightPlayer].Done():
		m.PlayerDisconnected(m.sessions[match.RightPlayer].ID())
	case <-m.done:
	}
}

// Done returns a channel closed when the match loop exits.
func (m *OnlineMatch) Done() <-chan struct{} {
	return m.done
}

// Stop gracefully stops the match.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
