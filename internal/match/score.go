package match

import (
	"fmt"
	"math"
)

// Tally is read access to a pair of goal counts.
// Rules evaluate any Tally, so snapshots received over the network can be
// judged the same way as a live Score.
type Tally interface {
	LeftGoals() uint32
	RightGoals() uint32
}

// Score is the goal tally of one match. Counts only ever grow; a new match
// needs a new Score.
type Score struct {
	left  uint32
	right uint32
}

// NewScore returns a 0-0 score.
func NewScore() *Score {
	return &Score{}
}

// ScoreGoal credits one goal to player.
// Reaching the uint32 limit is treated as unreachable and panics.
func (s *Score) ScoreGoal(player Player) error {
	var count *uint32
	switch player {
	case LeftPlayer:
		count = &s.left
	case RightPlayer:
		count = &s.right
	default:
		return fmt.Errorf("%w: unknown player %d", ErrInvalidUsage, int(player))
	}

	if *count == math.MaxUint32 {
		panic(fmt.Sprintf("match: goal count overflow for %s", player))
	}
	*count++
	return nil
}

// LeftGoals returns the left player's goal count.
func (s *Score) LeftGoals() uint32 {
	return s.left
}

// RightGoals returns the right player's goal count.
func (s *Score) RightGoals() uint32 {
	return s.right
}

// Goals returns the goal count for player. It panics on an invalid Player.
func (s *Score) Goals(player Player) uint32 {
	switch player {
	case LeftPlayer:
		return s.left
	case RightPlayer:
		return s.right
	default:
		panic(fmt.Sprintf("match: goals of invalid player %d", int(player)))
	}
}

// Differential is left goals minus right goals.
func (s *Score) Differential() int64 {
	return int64(s.left) - int64(s.right)
}

// FinalResult compares the current counts. It says who is ahead, not
// whether the match is over.
func (s *Score) FinalResult() Result {
	return Compare(s)
}

// String formats the score as "left-right".
func (s *Score) String() string {
	return fmt.Sprintf("%d-%d", s.left, s.right)
}

// Compare derives a Result from any tally.
func Compare(t Tally) Result {
	left, right := t.LeftGoals(), t.RightGoals()
	switch {
	case left == right:
		return Tie
	case left > right:
		return LeftPlayerWin
	default:
		return RightPlayerWin
	}
}
