package match

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tally is a fixed count pair for table-driven rule checks.
type tally struct{ left, right uint32 }

func (t tally) LeftGoals() uint32  { return t.left }
func (t tally) RightGoals() uint32 { return t.right }

func mustSettings(t *testing.T, mode Mode, value uint32) Settings {
	t.Helper()
	s, err := NewSettings(mode, value)
	require.NoError(t, err)
	return s
}

func TestEvaluateHighScore(t *testing.T) {
	rules := NewRules(mustSettings(t, HighScore, 5))

	tests := []struct {
		name  string
		score tally
		want  Outcome
	}{
		{"start", tally{0, 0}, Outcome{Finished: false, Result: Tie}},
		{"4-0 continues", tally{4, 0}, Outcome{Finished: false, Result: LeftPlayerWin}},
		{"4-4 continues", tally{4, 4}, Outcome{Finished: false, Result: Tie}},
		{"5-0 left wins", tally{5, 0}, Outcome{Finished: true, Result: LeftPlayerWin}},
		{"5-4 left wins", tally{5, 4}, Outcome{Finished: true, Result: LeftPlayerWin}},
		{"3-5 right wins", tally{3, 5}, Outcome{Finished: true, Result: RightPlayerWin}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rules.Evaluate(tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateHighScoreZeroTarget(t *testing.T) {
	rules := NewRules(mustSettings(t, HighScore, 0))

	got, err := rules.Evaluate(NewScore())
	require.NoError(t, err)
	assert.Equal(t, Outcome{Finished: true, Result: Tie}, got)
}

func TestEvaluateHighScoreGoalByGoal(t *testing.T) {
	rules := NewRules(mustSettings(t, HighScore, 3))
	s := NewScore()

	for _, p := range []Player{LeftPlayer, RightPlayer, RightPlayer, LeftPlayer} {
		require.NoError(t, s.ScoreGoal(p))
		out, err := rules.Evaluate(s)
		require.NoError(t, err)
		require.False(t, out.Finished, "finished early at %s", s)
	}

	require.NoError(t, s.ScoreGoal(RightPlayer))
	out, err := rules.Evaluate(s)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Finished: true, Result: RightPlayerWin}, out)
}

func TestEvaluateBestOf(t *testing.T) {
	tests := []struct {
		name      string
		value     uint32
		threshold uint32
		score     tally
		finished  bool
		result    Result
	}{
		{"best of 5 at 2-2", 5, 3, tally{2, 2}, false, Tie},
		{"best of 5 at 3-2", 5, 3, tally{3, 2}, true, LeftPlayerWin},
		{"best of 5 at 0-3", 5, 3, tally{0, 3}, true, RightPlayerWin},
		{"best of 4 at 2-1", 4, 3, tally{2, 1}, false, LeftPlayerWin},
		{"best of 4 at 1-3", 4, 3, tally{1, 3}, true, RightPlayerWin},
		{"best of 1 at 1-0", 1, 1, tally{1, 0}, true, LeftPlayerWin},
		{"best of 0 at 0-0", 0, 1, tally{0, 0}, false, Tie},
		{"best of 0 at 0-1", 0, 1, tally{0, 1}, true, RightPlayerWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := NewRules(mustSettings(t, BestOfScore, tt.value))

			threshold, ok := rules.Threshold()
			require.True(t, ok)
			assert.Equal(t, tt.threshold, threshold)

			got, err := rules.Evaluate(tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.finished, got.Finished)
			assert.Equal(t, tt.result, got.Result)
			if got.Finished {
				assert.NotEqual(t, Tie, got.Result, "best-of never ends in a tie")
			}
		})
	}
}

func TestEvaluateTimeNeverFinishesOnGoals(t *testing.T) {
	rules := NewRules(mustSettings(t, Time, 3))

	got, err := rules.Evaluate(tally{40, 2})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Finished: false, Result: LeftPlayerWin}, got)

	_, ok := rules.Threshold()
	assert.False(t, ok)
}

func TestTimeUp(t *testing.T) {
	rules := NewRules(mustSettings(t, Time, 3))

	tests := []struct {
		score tally
		want  Result
	}{
		{tally{0, 0}, Tie},
		{tally{2, 2}, Tie},
		{tally{3, 1}, LeftPlayerWin},
		{tally{0, 1}, RightPlayerWin},
	}

	for _, tt := range tests {
		got, err := rules.TimeUp(tt.score)
		require.NoError(t, err)
		assert.Equal(t, Outcome{Finished: true, Result: tt.want}, got)
	}
}

func TestTimeUpOutsideTimeMode(t *testing.T) {
	for _, s := range []Settings{
		mustSettings(t, HighScore, 5),
		mustSettings(t, BestOfScore, 5),
		EndlessSettings(),
	} {
		_, err := NewRules(s).TimeUp(tally{1, 0})
		assert.ErrorIs(t, err, ErrInvalidUsage, s.Mode().String())
	}
}

func TestEvaluateEndless(t *testing.T) {
	rules := NewRules(EndlessSettings())

	for _, score := range []tally{{0, 0}, {10, 0}, {1000, 999}} {
		got, err := rules.Evaluate(score)
		require.NoError(t, err)
		assert.False(t, got.Finished)
		assert.Equal(t, Compare(score), got.Result)
	}

	assert.Equal(t, Outcome{Finished: true, Result: RightPlayerWin}, rules.Finish(tally{1, 4}))
}

func TestEvaluateUnknownMode(t *testing.T) {
	rules := NewRules(Settings{mode: Mode(42), value: 1})

	_, err := rules.Evaluate(tally{})
	assert.ErrorIs(t, err, ErrUnimplemented)

	_, err = rules.TimeUp(tally{})
	assert.ErrorIs(t, err, ErrUnimplemented)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	for _, s := range []Settings{
		mustSettings(t, HighScore, 2),
		mustSettings(t, BestOfScore, 3),
		mustSettings(t, Time, 1),
		EndlessSettings(),
	} {
		rules := NewRules(s)
		score := NewScore()
		require.NoError(t, score.ScoreGoal(LeftPlayer))
		require.NoError(t, score.ScoreGoal(LeftPlayer))

		first, err := rules.Evaluate(score)
		require.NoError(t, err)
		second, err := rules.Evaluate(score)
		require.NoError(t, err)

		assert.Equal(t, first, second, s.Mode().String())
		assert.Equal(t, "2-0", score.String(), "evaluation must not touch the score")
	}
}

func TestSettingsDuration(t *testing.T) {
	assert.Equal(t, 3*time.Minute, mustSettings(t, Time, 3).Duration())
	assert.Zero(t, mustSettings(t, HighScore, 3).Duration())
}

func TestSettingsDurationSaturates(t *testing.T) {
	longest := mustSettings(t, Time, uint32(maxMinutes))
	assert.Equal(t, time.Duration(maxMinutes)*time.Minute, longest.Duration())

	for _, minutes := range []uint32{uint32(maxMinutes) + 1, math.MaxUint32} {
		d := mustSettings(t, Time, minutes).Duration()
		assert.Equal(t, time.Duration(math.MaxInt64), d, "%d minutes", minutes)
	}
}
