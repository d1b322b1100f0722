package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/games/airhockey"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/multiplayer"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
	"github.com/vovakirdan/tui-airhockey/internal/storage"
)

// sessionEventBuffer is the per-session event queue length. Snapshots
// arrive every tick, so a slow client skips snapshots before lobby events.
const sessionEventBuffer = 256

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.airhockey/host_key.
	HostKeyPath string

	// DBPath is the path to the match history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of local and online matches.
	TickRate int

	// Options holds the table configuration and default match settings.
	Options registry.Options

	// Logger receives server and coordinator logs. Nil creates a
	// timestamped stderr logger.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	opts, err := registry.DefaultOptions()
	if err != nil {
		opts.Settings = match.EndlessSettings()
	}
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.airhockey/matches.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Options:     opts,
	}
}

// SSHServer wraps a Wish SSH server and the online match coordinator.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	table       core.RuntimeConfig
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "airhockey-ssh",
		})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open match history", "error", err)
		store = nil
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.TickRate

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: multiplayer.NewSessionRegistry(),
		table: core.RuntimeConfig{
			ScreenW:  coordCfg.ScreenW,
			ScreenH:  coordCfg.ScreenH,
			TickRate: coordCfg.TickRate,
		},
		logger: logger,
	}

	srv.coordinator = multiplayer.NewCoordinator(coordCfg, srv.newOnlineGame, srv.sessions)
	srv.coordinator.SetLogger(logger.WithPrefix("airhockey-online"))
	if store != nil {
		srv.coordinator.SetResultSaver(store)
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			srv.closeStore()
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".airhockey", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging wraps the PTY check, which
	// wraps the Bubble Tea program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// newOnlineGame creates the authoritative table of an online match.
func (s *SSHServer) newOnlineGame(gameID string, settings match.Settings) (multiplayer.OnlineGame, error) {
	if gameID != airhockey.DuelID {
		return nil, fmt.Errorf("game %q cannot be played online", gameID)
	}
	opts := s.config.Options
	opts.Settings = settings
	return airhockey.NewDuel(opts), nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	handle := multiplayer.NewChannelSession(id, sshSession.User(), sessionEventBuffer)
	s.sessions.Register(handle)

	go func() {
		<-sshSession.Context().Done()
		if seat, ok := handle.Seat(); ok {
			s.logger.Info("player left mid-match",
				"user", handle.Name(),
				"match", seat.MatchID,
				"side", seat.Side,
				"dropped_snapshots", handle.DroppedSnapshots(),
			)
		}
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		s.sessions.Unregister(id)
		handle.Close()
	}()

	model := NewSessionModel(SessionConfig{
		Store:       s.store,
		Runtime:     cfg,
		Options:     s.config.Options,
		Username:    sshSession.User(),
		Coordinator: s.coordinator,
		SessionID:   id,
		Events:      handle.Events(),
		Table:       s.table,
		Logger:      s.logger,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
			"connected", s.sessions.Count(),
			"seated", s.sessions.Seated(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)
	s.coordinator.Start()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
		s.logger.Info("shutting down...")
		return s.Shutdown()
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		//nolint:errcheck // The listen error is the one worth reporting
		s.Shutdown()
		return err
	}
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coordinator.Stop()
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen is the screen a session is currently showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenSetup
	screenGame
	screenHistory
	screenLobby
	screenOnlineMatch
)

// SessionConfig wires a session model to the server.
type SessionConfig struct {
	Store    *storage.Store
	Runtime  core.RuntimeConfig
	Options  registry.Options
	Username string

	// Online play; a nil Coordinator hides it from the menu.
	Coordinator MessageSender
	SessionID   multiplayer.SessionID
	Events      <-chan multiplayer.SessionEvent
	Table       core.RuntimeConfig // Online table size and tick rate

	Logger *log.Logger
}

// SessionModel manages the full session flow: menu -> setup -> match ->
// menu, plus the history screen and online play.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	cfg      SessionConfig
	config   core.RuntimeConfig
	logger   *log.Logger
	screen   sessionScreen
	menu     MenuModel
	setup    SetupModel
	gameID   string
	game     Model
	history  HistoryModel
	lobby    OnlineLobbyModel
	online   OnlineMatchModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return SessionModel{
		cfg:    cfg,
		config: cfg.Runtime,
		logger: logger,
		menu:   NewMenuModel(cfg.Runtime, cfg.Coordinator != nil),
	}
}

// Init starts listening for coordinator events.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), waitForEvent(m.cfg.Events))
}

// Update routes messages to the current screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	case TickMsg:
		// Ticks left over from a screen already closed end here.
		if m.screen != screenGame && m.screen != screenOnlineMatch {
			return m, nil
		}
	case multiplayer.SessionEvent:
		next, cmd := m.route(msg)
		return next, tea.Batch(cmd, waitForEvent(m.cfg.Events))
	}
	return m.route(msg)
}

func (m SessionModel) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenSetup:
		return m.updateSetup(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenHistory:
		return m.updateHistory(msg)
	case screenLobby:
		return m.updateLobby(msg)
	case screenOnlineMatch:
		return m.updateOnline(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.config, m.cfg.Coordinator != nil)
	return m, m.menu.Init()
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	if m.menu.IsQuitting() {
		return m.quit()
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch selected.Choice {
	case MenuChoiceVersusCPU, MenuChoiceDuel:
		m.gameID = selected.GameID
		title := "PLAY VS CPU"
		if selected.Choice == MenuChoiceDuel {
			title = "LOCAL DUEL"
		}
		m.setup = NewSetupModel(title, m.cfg.Options.Settings, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenSetup
		return m, m.setup.Init()

	case MenuChoiceHistory:
		m.history = NewHistoryModel(m.cfg.Store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenHistory
		return m, m.history.Init()

	case MenuChoiceOnline:
		m.lobby = NewOnlineLobbyModel(m.cfg.SessionID, m.cfg.Coordinator, m.cfg.Options.Settings,
			m.config.ScreenW, m.config.ScreenH)
		m.screen = screenLobby
		return m, m.lobby.Init()
	}

	return m.toMenu()
}

func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.setup.Update(msg)
	m.setup = next.(SetupModel)

	switch {
	case m.setup.IsQuitting():
		return m.quit()
	case m.setup.WantsBack():
		return m.toMenu()
	case m.setup.Selected() == nil:
		return m, cmd
	}

	opts := m.cfg.Options
	opts.Settings = *m.setup.Selected()
	game, err := registry.Create(m.gameID, opts)
	if err != nil {
		m.logger.Error("cannot create game", "game", m.gameID, "error", err)
		return m.toMenu()
	}

	m.config.Seed = time.Now().UnixNano()
	right := "CPU"
	if m.gameID == airhockey.DuelID {
		right = "P2"
	}
	m.game = NewModel(game, m.cfg.Store, m.config).WithNames(m.cfg.Username, right)
	m.screen = screenGame
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	if m.game.BackToMenu() || m.game.IsQuitting() {
		if err := m.game.SaveErr(); err != nil {
			m.logger.Warn("could not save match", "user", m.cfg.Username, "error", err)
		}
		if m.game.IsQuitting() {
			return m.quit()
		}
		return m.toMenu()
	}

	return m, cmd
}

func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	m.history = next.(HistoryModel)

	switch {
	case m.history.IsQuitting():
		return m.quit()
	case m.history.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	m.lobby = next.(OnlineLobbyModel)

	switch {
	case m.lobby.IsQuitting():
		return m.quit()
	case m.lobby.BackToMenu():
		return m.toMenu()
	case m.lobby.State() == OnlineStateInMatch:
		started := multiplayer.MatchStartedEvent{
			MatchID:  m.lobby.MatchID(),
			Side:     m.lobby.Side(),
			Code:     m.lobby.LobbyCode(),
			Settings: m.lobby.Settings(),
		}
		m.online = NewOnlineMatchModel(m.cfg.Coordinator, m.cfg.SessionID, started,
			m.cfg.Options, m.cfg.Table, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenOnlineMatch
		return m, m.online.Init()
	}
	return m, cmd
}

func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.online.Update(msg)
	m.online = next.(OnlineMatchModel)

	switch {
	case m.online.IsQuitting():
		return m.quit()
	case m.online.BackToMenu():
		return m.toMenu()
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenSetup:
		return m.setup.View()
	case screenGame:
		return m.game.View()
	case screenHistory:
		return m.history.View()
	case screenLobby:
		return m.lobby.View()
	case screenOnlineMatch:
		return m.online.View()
	default:
		return m.menu.View()
	}
}

// Screen reports which screen the session shows.
func (m SessionModel) Screen() string {
	switch m.screen {
	case screenSetup:
		return "setup"
	case screenGame:
		return "game"
	case screenHistory:
		return "history"
	case screenLobby:
		return "lobby"
	case screenOnlineMatch:
		return "online"
	default:
		return "menu"
	}
}
