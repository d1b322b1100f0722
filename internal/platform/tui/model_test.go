package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

// stubGame finishes after finishAt steps with the configured goals.
type stubGame struct {
	settings match.Settings
	finishAt int
	goals    [2]uint32

	resets int
	steps  int
	last   core.MultiInputFrame
	state  core.GameState
}

func (g *stubGame) ID() string               { return "stub" }
func (g *stubGame) Title() string            { return "Stub" }
func (g *stubGame) Settings() match.Settings { return g.settings }
func (g *stubGame) Render(s *core.Screen)    { s.Clear(); s.DrawText(0, 0, "stub table") }
func (g *stubGame) State() core.GameState    { return g.state }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.state = core.GameState{}
}

func (g *stubGame) Step(in core.MultiInputFrame) core.StepResult {
	g.last = in.Clone()
	if g.state.Finished {
		return core.StepResult{State: g.state}
	}
	if in.Has(core.ActionPause) {
		g.state.Paused = !g.state.Paused
	}
	if g.state.Paused {
		return core.StepResult{State: g.state}
	}
	g.steps++
	g.state.LeftGoals, g.state.RightGoals = g.goals[0], g.goals[1]
	g.state.Result = match.Compare(g)
	if g.finishAt > 0 && g.steps >= g.finishAt {
		g.state.Finished = true
	}
	return core.StepResult{State: g.state}
}

func (g *stubGame) Stop() core.GameState {
	g.state.Finished = true
	return g.state
}

func (g *stubGame) LeftGoals() uint32  { return g.goals[0] }
func (g *stubGame) RightGoals() uint32 { return g.goals[1] }

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 1}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "matches.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tick(t *testing.T, m Model, n int) Model {
	t.Helper()
	for range n {
		next, cmd := m.Update(TickMsg{})
		require.NotNil(t, cmd, "tick loop stopped")
		m = next.(Model)
	}
	return m
}

func recent(t *testing.T, store *storage.Store) []storage.MatchRecord {
	t.Helper()
	records, err := store.RecentMatches(10)
	require.NoError(t, err)
	return records
}

func TestModelSavesFinishedMatchOnce(t *testing.T) {
	store := openStore(t)
	game := &stubGame{settings: highScore(t, 3), finishAt: 25, goals: [2]uint32{3, 1}}
	m := NewModel(game, store, testRuntime())
	m.Init()

	m = tick(t, m, 30)
	require.True(t, m.State().Finished)

	records := recent(t, store)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "stub", rec.GameID)
	assert.Equal(t, match.HighScore, rec.Mode)
	assert.EqualValues(t, 3, rec.Value)
	assert.EqualValues(t, 3, rec.LeftGoals)
	assert.EqualValues(t, 1, rec.RightGoals)
	assert.Equal(t, match.LeftPlayerWin, rec.Result)
	assert.Equal(t, storage.EndReasonCompleted, rec.EndReason)
	assert.Equal(t, 2, rec.DurationSecs)
	assert.Equal(t, "P1", rec.LeftName)
	assert.Equal(t, "CPU", rec.RightName)
	assert.NotEmpty(t, rec.MatchID)
	assert.NoError(t, m.SaveErr())
}

func TestModelQuitStopsMatch(t *testing.T) {
	store := openStore(t)
	game := &stubGame{settings: highScore(t, 7), goals: [2]uint32{1, 2}}
	m := NewModel(game, store, testRuntime()).WithNames("alice", "bob")
	m.Init()
	m = tick(t, m, 5)

	next, cmd := m.Update(runeKey("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.IsQuitting())
	assert.True(t, m.State().Finished)

	records := recent(t, store)
	require.Len(t, records, 1)
	assert.Equal(t, storage.EndReasonStopped, records[0].EndReason)
	assert.Equal(t, match.RightPlayerWin, records[0].Result)
	assert.Equal(t, "alice", records[0].LeftName)
	assert.Equal(t, "bob", records[0].RightName)
}

func TestModelQuitWithoutGoalsIsNotRecorded(t *testing.T) {
	store := openStore(t)
	game := &stubGame{settings: highScore(t, 7)}
	m := NewModel(game, store, testRuntime())
	m.Init()
	m = tick(t, m, 3)

	m = press(t, m, runeKey("q"))
	assert.Empty(t, recent(t, store))
}

func TestModelQuitEndlessIsRecorded(t *testing.T) {
	store := openStore(t)
	game := &stubGame{settings: match.EndlessSettings()}
	m := NewModel(game, store, testRuntime())
	m.Init()
	m = tick(t, m, 3)

	m = press(t, m, runeKey("q"))
	records := recent(t, store)
	require.Len(t, records, 1)
	assert.Equal(t, match.Endless, records[0].Mode)
	assert.Equal(t, match.Tie, records[0].Result)
}

func TestModelRestartStartsNewMatch(t *testing.T) {
	store := openStore(t)
	game := &stubGame{settings: highScore(t, 1), finishAt: 2, goals: [2]uint32{1, 0}}
	m := NewModel(game, store, testRuntime())
	m.Init()
	m = tick(t, m, 3)
	require.True(t, m.State().Finished)

	m = press(t, m, runeKey("r"))
	m = tick(t, m, 1)
	assert.Equal(t, 2, game.resets)
	assert.False(t, m.State().Finished)

	m = tick(t, m, 3)
	records := recent(t, store)
	require.Len(t, records, 2)
	assert.NotEqual(t, records[0].MatchID, records[1].MatchID)
}

func TestModelRestartIgnoredDuringPlay(t *testing.T) {
	game := &stubGame{settings: highScore(t, 7)}
	m := NewModel(game, nil, testRuntime())
	m.Init()
	m = tick(t, m, 2)

	m = press(t, m, runeKey("r"))
	m = tick(t, m, 1)
	assert.Equal(t, 1, game.resets)
}

func TestModelBackOnlyWhenPausedOrOver(t *testing.T) {
	game := &stubGame{settings: highScore(t, 7)}
	m := NewModel(game, nil, testRuntime())
	m.Init()
	m = tick(t, m, 1)

	m = press(t, m, keyEsc)
	assert.False(t, m.BackToMenu())

	m = press(t, m, runeKey("p"))
	m = tick(t, m, 1)
	require.True(t, m.State().Paused)

	m = press(t, m, keyEsc)
	assert.True(t, m.BackToMenu())
}

func TestModelHoldsMovementKeys(t *testing.T) {
	game := &stubGame{settings: highScore(t, 7)}
	cfg := testRuntime()
	cfg.TickRate = 60
	m := NewModel(game, nil, cfg)
	m.Init()

	m = press(t, m, runeKey("w"))
	m = tick(t, m, 1)
	assert.True(t, game.last.Player(match.LeftPlayer).Has(core.ActionUp))

	m = tick(t, m, cfg.TicksFor(holdWindow))
	assert.False(t, game.last.Has(core.ActionUp), "hold expires without key repeats")
}

func TestModelView(t *testing.T) {
	game := &stubGame{settings: highScore(t, 7)}
	m := NewModel(game, nil, testRuntime())
	m.Init()
	assert.True(t, strings.HasPrefix(m.View(), "stub table"))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	m = next.(Model)
	assert.Len(t, strings.Split(m.View(), "\n"), 10)
}
