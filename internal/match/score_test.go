package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreGoals(t *testing.T, s *Score, p Player, n int) {
	t.Helper()
	for range n {
		require.NoError(t, s.ScoreGoal(p))
	}
}

func TestStartIsTie(t *testing.T) {
	assert.Equal(t, Tie, NewScore().FinalResult(), "initial score is a tie")
}

func TestOneEachIsTie(t *testing.T) {
	s := NewScore()
	scoreGoals(t, s, LeftPlayer, 1)
	scoreGoals(t, s, RightPlayer, 1)
	assert.Equal(t, Tie, s.FinalResult())
}

func TestEqualCountsAreTie(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100} {
		s := NewScore()
		scoreGoals(t, s, LeftPlayer, n)
		scoreGoals(t, s, RightPlayer, n)
		assert.Equal(t, Tie, s.FinalResult(), "%d goals each", n)
	}
}

func TestSingleGoalWins(t *testing.T) {
	tests := []struct {
		scorer Player
		want   Result
	}{
		{LeftPlayer, LeftPlayerWin},
		{RightPlayer, RightPlayerWin},
	}

	for _, tt := range tests {
		t.Run(tt.scorer.String(), func(t *testing.T) {
			s := NewScore()
			scoreGoals(t, s, tt.scorer, 1)
			assert.Equal(t, tt.want, s.FinalResult())
			assert.Equal(t, uint32(1), s.Goals(tt.scorer))
			assert.Equal(t, uint32(0), s.Goals(tt.scorer.Opponent()))
		})
	}
}

func TestFullMatch(t *testing.T) {
	s := NewScore()
	require.Equal(t, Tie, s.FinalResult())

	scoreGoals(t, s, LeftPlayer, 1)
	assert.Equal(t, LeftPlayerWin, s.FinalResult(), "1-0: left wins")

	scoreGoals(t, s, RightPlayer, 1)
	assert.Equal(t, Tie, s.FinalResult(), "1-1: tie")

	scoreGoals(t, s, RightPlayer, 1)
	assert.Equal(t, RightPlayerWin, s.FinalResult(), "1-2: right wins")

	scoreGoals(t, s, LeftPlayer, 1)
	assert.Equal(t, Tie, s.FinalResult(), "2-2: tie")

	scoreGoals(t, s, LeftPlayer, 100)
	scoreGoals(t, s, LeftPlayer, 1)
	assert.Equal(t, LeftPlayerWin, s.FinalResult(), "103-2: left wins")

	scoreGoals(t, s, RightPlayer, 100)
	scoreGoals(t, s, RightPlayer, 1)
	assert.Equal(t, Tie, s.FinalResult(), "103-103: tie")
	assert.Equal(t, "103-103", s.String())
}

func TestResultIgnoresInterleaving(t *testing.T) {
	a := NewScore()
	scoreGoals(t, a, LeftPlayer, 3)
	scoreGoals(t, a, RightPlayer, 2)

	b := NewScore()
	for _, p := range []Player{RightPlayer, LeftPlayer, RightPlayer, LeftPlayer, LeftPlayer} {
		require.NoError(t, b.ScoreGoal(p))
	}

	assert.Equal(t, a.FinalResult(), b.FinalResult())
	assert.Equal(t, a.Differential(), b.Differential())
	assert.Equal(t, int64(1), a.Differential())
}

func TestScoreGoalUnknownPlayer(t *testing.T) {
	s := NewScore()
	err := s.ScoreGoal(Player(7))
	require.ErrorIs(t, err, ErrInvalidUsage)
	assert.Equal(t, "0-0", s.String(), "rejected goal must not change the score")
}

func TestGoalsUnknownPlayerPanics(t *testing.T) {
	s := NewScore()
	scoreGoals(t, s, LeftPlayer, 2)
	assert.PanicsWithValue(t, "match: goals of invalid player 7", func() { s.Goals(Player(7)) })
}

func TestScoreGoalOverflowPanics(t *testing.T) {
	s := &Score{left: math.MaxUint32}
	assert.Panics(t, func() { _ = s.ScoreGoal(LeftPlayer) })
	assert.Equal(t, uint32(math.MaxUint32), s.LeftGoals())
}

func TestResultWinner(t *testing.T) {
	p, ok := LeftPlayerWin.Winner()
	assert.True(t, ok)
	assert.Equal(t, LeftPlayer, p)

	p, ok = RightPlayerWin.Winner()
	assert.True(t, ok)
	assert.Equal(t, RightPlayer, p)

	_, ok = Tie.Winner()
	assert.False(t, ok)

	assert.Equal(t, LeftPlayerWin, WinFor(LeftPlayer))
	assert.Equal(t, RightPlayerWin, WinFor(RightPlayer))
	assert.PanicsWithValue(t, "match: win for invalid player 7", func() { WinFor(Player(7)) })
}
