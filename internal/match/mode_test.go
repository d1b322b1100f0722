package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeInfo(t *testing.T) {
	tests := []struct {
		mode Mode
		name string
		unit string
	}{
		{HighScore, "score", "points"},
		{BestOfScore, "scores", "points"},
		{Time, "duration", "minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			name, err := tt.mode.InfoName()
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)

			unit, err := tt.mode.InfoUnitName()
			require.NoError(t, err)
			assert.Equal(t, tt.unit, unit)
		})
	}
}

func TestEndlessHasNoInfo(t *testing.T) {
	for range 3 {
		_, err := Endless.InfoName()
		assert.ErrorIs(t, err, ErrInvalidUsage)

		_, err = Endless.InfoUnitName()
		assert.ErrorIs(t, err, ErrInvalidUsage)
	}
}

func TestUnknownModeInfo(t *testing.T) {
	_, err := Mode(-1).InfoName()
	assert.ErrorIs(t, err, ErrUnimplemented)

	_, err = Mode(9).InfoUnitName()
	assert.ErrorIs(t, err, ErrUnimplemented)
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(m.Key())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("  Best-Of ")
	require.NoError(t, err)
	assert.Equal(t, BestOfScore, got)

	_, err = ParseMode("sudden-death")
	assert.ErrorIs(t, err, ErrInvalidUsage)
}

func TestNewSettings(t *testing.T) {
	s, err := NewSettings(HighScore, 7)
	require.NoError(t, err)
	assert.Equal(t, HighScore, s.Mode())
	assert.Equal(t, uint32(7), s.Value())
	assert.Equal(t, "High Score - score: 7 points", s.Describe())

	_, err = NewSettings(Endless, 3)
	assert.ErrorIs(t, err, ErrInvalidUsage)

	_, err = NewSettings(Mode(12), 3)
	assert.ErrorIs(t, err, ErrInvalidUsage)

	assert.Equal(t, "Endless", EndlessSettings().Describe())
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings("time", 3)
	require.NoError(t, err)
	assert.Equal(t, Time, s.Mode())
	assert.Equal(t, "Time - duration: 3 minutes", s.Describe())

	s, err = ParseSettings("endless", 10)
	require.NoError(t, err)
	assert.Equal(t, EndlessSettings(), s)

	_, err = ParseSettings("highscore", -1)
	assert.ErrorIs(t, err, ErrInvalidUsage)

	_, err = ParseSettings("nope", 1)
	assert.ErrorIs(t, err, ErrInvalidUsage)
}
