package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

// holdWindow is how long a movement key stays pressed without a repeat.
const holdWindow = 120 * time.Millisecond

// Model is the Bubble Tea model that runs one local match at a time.
// It feeds keyboard input to the game, records finished matches and
// starts a new match on restart.
type Model struct {
	game      registry.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	held      *HeldKeys
	input     core.MultiInputFrame
	gameState core.GameState
	names     [2]string

	matchID string
	ticks   int // Unpaused ticks of the current match
	saved   bool
	saveErr error

	quitting   bool
	backToMenu bool
}

// NewModel creates a match runner for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	keys := NewKeyMapper()
	if seats(game) > 1 {
		keys = NewDuelKeyMapper()
	}

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keyMapper: keys,
		held:      NewHeldKeys(cfg.TicksFor(holdWindow)),
		input:     core.NewMultiInputFrame(),
		names:     defaultNames(game),
		matchID:   uuid.NewString(),
	}
}

// WithNames sets the player names stored in the match history.
func (m Model) WithNames(left, right string) Model {
	if left != "" {
		m.names[match.LeftPlayer] = left
	}
	if right != "" {
		m.names[match.RightPlayer] = right
	}
	return m
}

func seats(game registry.Game) int {
	if info, ok := registry.Info(game.ID()); ok {
		return info.Seats
	}
	return 1
}

func defaultNames(game registry.Game) [2]string {
	if seats(game) > 1 {
		return [2]string{"P1", "P2"}
	}
	return [2]string{"P1", "CPU"}
}

// Init starts the match and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The rink keeps the size it was reset with; only the buffer follows
		// the terminal so a resize never throws away the score.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	player, action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.endMatch()
		m.quitting = true
		return m, tea.Quit

	case action == core.ActionBack:
		if m.gameState.Finished || m.gameState.Paused {
			m.endMatch()
			m.backToMenu = true
			return m, tea.Quit
		}

	case isMovement(action):
		m.held.Press(player, action)

	case action != core.ActionNone:
		m.input.Press(player, action)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.input.Has(core.ActionRestart) && (m.gameState.Finished || m.gameState.Paused) {
		m.endMatch()
		m.restart()
		return m, tickCmd(m.config.TickRate)
	}

	m.held.Apply(&m.input)
	result := m.game.Step(m.input)
	m.gameState = result.State
	if !m.gameState.Paused && !m.gameState.Finished {
		m.ticks++
	}

	if m.gameState.Finished && !m.saved {
		m.save(storage.EndReasonCompleted)
	}

	m.input.Clear()
	return m, tickCmd(m.config.TickRate)
}

// restart begins a new match with a fresh score and identifier.
func (m *Model) restart() {
	m.config.Seed = time.Now().UnixNano()
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.matchID = uuid.NewString()
	m.ticks = 0
	m.saved = false
	m.held.Release()
	m.input.Clear()
}

// endMatch records the current match before leaving it. A match still in
// play is stopped first; it is kept only if something happened in it.
func (m *Model) endMatch() {
	if m.saved {
		return
	}
	if m.gameState.Finished {
		m.save(storage.EndReasonCompleted)
		return
	}

	m.gameState = m.game.Stop()
	st := m.gameState
	if st.LeftGoals+st.RightGoals == 0 && m.game.Settings().Mode() != match.Endless {
		m.saved = true
		return
	}
	m.save(storage.EndReasonStopped)
}

func (m *Model) save(reason string) {
	m.saved = true
	if m.store == nil {
		return
	}
	if _, err := m.store.SaveMatch(m.record(reason)); err != nil {
		m.saveErr = err
	}
}

func (m *Model) record(reason string) storage.MatchRecord {
	settings := m.game.Settings()
	st := m.gameState
	return storage.MatchRecord{
		MatchID:      m.matchID,
		GameID:       m.game.ID(),
		Mode:         settings.Mode(),
		Value:        settings.Value(),
		LeftGoals:    st.LeftGoals,
		RightGoals:   st.RightGoals,
		Result:       st.Result,
		EndReason:    reason,
		DurationSecs: m.ticks / max(1, m.config.TickRate),
		LeftName:     m.names[match.LeftPlayer],
		RightName:    m.names[match.RightPlayer],
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".airhockey", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, the match continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// SaveErr returns the last error from recording a match, if any.
func (m Model) SaveErr() error {
	return m.saveErr
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// RunResult reports how a local match session ended.
type RunResult struct {
	State      core.GameState
	SaveErr    error // Match history write failure, if any
	BackToMenu bool
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (RunResult, error) {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return RunResult{}, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return RunResult{}, nil
	}
	return RunResult{State: m.State(), SaveErr: m.SaveErr(), BackToMenu: m.BackToMenu()}, nil
}
