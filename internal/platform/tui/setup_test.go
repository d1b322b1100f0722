package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-airhockey/internal/match"
)

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func press[M tea.Model](t *testing.T, m M, keys ...tea.KeyMsg) M {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(M)
		require.True(t, ok, "unexpected model type %T", next)
	}
	return m
}

func highScore(t *testing.T, v uint32) match.Settings {
	t.Helper()
	s, err := match.NewSettings(match.HighScore, v)
	require.NoError(t, err)
	return s
}

func TestSetupStartsOnDefaults(t *testing.T) {
	m := NewSetupModel("PLAY", highScore(t, 4), 80, 24)
	m = press(t, m, keyEnter)

	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "score: 4 points")

	m = press(t, m, keyEnter)
	require.NotNil(t, m.Selected())
	assert.Equal(t, highScore(t, 4), *m.Selected())
}

func TestSetupAdjustsValue(t *testing.T) {
	m := NewSetupModel("PLAY", highScore(t, 7), 80, 24)
	m = press(t, m, keyDown, keyDown, keyEnter) // Time

	assert.Contains(t, m.View(), "duration: 3 minutes")
	m = press(t, m, keyRight, keyRight, keyLeft, keyEnter)

	require.NotNil(t, m.Selected())
	assert.Equal(t, match.Time, m.Selected().Mode())
	assert.EqualValues(t, 4, m.Selected().Value())
}

func TestSetupValueBounds(t *testing.T) {
	m := NewSetupModel("PLAY", highScore(t, 1), 80, 24)
	m = press(t, m, keyEnter, keyLeft, keyLeft, keyEnter)
	require.NotNil(t, m.Selected())
	assert.EqualValues(t, minSetupValue, m.Selected().Value())

	m = NewSetupModel("PLAY", highScore(t, maxSetupValue), 80, 24)
	m = press(t, m, keyEnter, keyUp, keyEnter)
	require.NotNil(t, m.Selected())
	assert.EqualValues(t, maxSetupValue, m.Selected().Value())
}

func TestSetupEndlessSkipsValue(t *testing.T) {
	m := NewSetupModel("PLAY", highScore(t, 7), 80, 24)
	m = press(t, m, keyDown, keyDown, keyDown)
	assert.NotContains(t, m.View(), "points")

	m = press(t, m, keyEnter)
	require.NotNil(t, m.Selected())
	assert.Equal(t, match.EndlessSettings(), *m.Selected())
}

func TestSetupBack(t *testing.T) {
	m := NewSetupModel("PLAY", highScore(t, 7), 80, 24)
	m = press(t, m, keyEnter, keyEsc)
	assert.False(t, m.WantsBack(), "esc in the value step returns to the modes")
	assert.Contains(t, m.View(), "Select match mode")

	m = press(t, m, keyEsc)
	assert.True(t, m.WantsBack())
	assert.Nil(t, m.Selected())
}

func TestValueLabel(t *testing.T) {
	assert.Equal(t, "score: 5 points", ValueLabel(match.HighScore, 5))
	assert.Equal(t, "scores: 3 points", ValueLabel(match.BestOfScore, 3))
	assert.Equal(t, "duration: 2 minutes", ValueLabel(match.Time, 2))
	assert.Equal(t, "Endless", ValueLabel(match.Endless, 0))
}

func TestMainMenu(t *testing.T) {
	cfg := testRuntime()

	t.Run("local menu hides online", func(t *testing.T) {
		m := NewMenuModel(cfg, false)
		assert.NotContains(t, m.View(), "Online")
		m = press(t, m, keyDown, keyEnter)
		require.NotNil(t, m.Selected())
		assert.Equal(t, MenuChoiceDuel, m.Selected().Choice)
	})

	t.Run("server menu lists online", func(t *testing.T) {
		m := NewMenuModel(cfg, true)
		m = press(t, m, keyDown, keyDown, keyEnter)
		require.NotNil(t, m.Selected())
		assert.Equal(t, MenuChoiceOnline, m.Selected().Choice)
	})

	t.Run("tab opens history", func(t *testing.T) {
		m := press(t, NewMenuModel(cfg, false), tea.KeyMsg{Type: tea.KeyTab})
		require.NotNil(t, m.Selected())
		assert.Equal(t, MenuChoiceHistory, m.Selected().Choice)
	})

	t.Run("quit entry quits", func(t *testing.T) {
		m := press(t, NewMenuModel(cfg, false), keyDown, keyDown, keyDown, keyEnter)
		assert.True(t, m.IsQuitting())
		assert.Nil(t, m.Selected())
	})
}
