package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/games/airhockey"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/multiplayer"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
)

// joinCodeLength is the number of characters in a lobby code.
const joinCodeLength = 6

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostSetup                        // Host picks the match settings
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateInMatch                          // Match has started
)

// MessageSender delivers messages to the match coordinator.
type MessageSender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// waitForEvent returns a command that delivers the next coordinator event.
func waitForEvent(events <-chan multiplayer.SessionEvent) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		evt, ok := <-events
		if !ok {
			return nil
		}
		return evt
	}
}

// OnlineLobbyModel handles the online matchmaking flow. Coordinator events
// are delivered to Update by the owning session model.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	sessionID   multiplayer.SessionID
	coordinator MessageSender
	setup       SetupModel
	defaults    match.Settings

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Match state
	matchID      multiplayer.MatchID
	side         match.Player
	opponentName string
	settings     match.Settings

	backToMenu bool
	quitting   bool
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	sessionID multiplayer.SessionID,
	coordinator MessageSender,
	defaults match.Settings,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		sessionID:   sessionID,
		coordinator: coordinator,
		defaults:    defaults,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == OnlineStateHostSetup {
			setup, _ := m.setup.Update(msg)
			m.setup = setup.(SetupModel)
		}
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.settings = msg.Settings
		m.state = OnlineStateHostWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
		m.opponentName = msg.OpponentName
		m.settings = msg.Settings
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateHostSetup:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.LobbyPlayerLeftEvent:
		m.opponentName = ""
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.settings = msg.Settings
		m.state = OnlineStateInMatch
	case multiplayer.MatchEndedEvent:
		// The host left before the match started.
		if msg.Reason == multiplayer.MatchEndReasonHostLeft {
			m.joinError = "Host left the lobby"
			m.state = OnlineStateJoinEnterCode
		}
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostSetup:
		return m.handleHostSetupKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.state = OnlineStateHostSetup
		m.setup = NewSetupModel("HOST A MATCH", m.defaults, m.width, m.height)
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleHostSetupKey drives the embedded setup screen. Its own quit
// command is dropped: finishing setup only moves the lobby on.
func (m OnlineLobbyModel) handleHostSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.setup.Selected() != nil {
		return m, nil // Lobby requested, waiting for the coordinator
	}
	next, _ := m.setup.Update(msg)
	m.setup = next.(SetupModel)

	switch {
	case m.setup.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.setup.WantsBack():
		m.state = OnlineStateChooseMode
	case m.setup.Selected() != nil:
		m.settings = *m.setup.Selected()
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    airhockey.DuelID,
			Settings:  m.settings,
		})
	}
	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.backToMenu = true
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLength {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

// leave withdraws from whatever lobby this session is in.
func (m OnlineLobbyModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	}
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostSetup:
		if m.setup.Selected() != nil {
			return m.viewWaiting("HOSTING GAME", "Creating lobby...")
		}
		return m.setup.View()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewWaiting("CONNECTING", fmt.Sprintf("Joining game: %s", m.joinCodeInput))
	case OnlineStateInMatch:
		return m.viewMatchStarting()
	}
	return ""
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("ONLINE AIR HOCKEY"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a game", m.width))
	b.WriteString("\n\n")
	if m.joinError != "" {
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
		b.WriteString("\n\n")
	}
	b.WriteString(centerText(menuHintStyle.Render("Esc: Back  |  Q: Quit"), m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("HOSTING GAME"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.settings.Describe(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuCursorStyle.Render(fmt.Sprintf("[ %s ]", m.lobbyCode)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuHintStyle.Render("Esc: Cancel  |  Q: Quit"), m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("JOIN GAME"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the game code:", m.width))
	b.WriteString("\n\n")

	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < joinCodeLength {
		codeDisplay += "_" + strings.Repeat(" ", joinCodeLength-1-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText(menuHintStyle.Render("Enter: Connect  |  Esc: Back"), m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewWaiting(title, detail string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(detail, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuHintStyle.Render("Esc: Cancel"), m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewMatchStarting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("MATCH STARTING"), m.width))
	b.WriteString("\n\n")

	sideText := "LEFT (P1)"
	if m.side == match.RightPlayer {
		sideText = "RIGHT (P2)"
	}
	b.WriteString(centerText(fmt.Sprintf("You are: %s", sideText), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.settings.Describe(), m.width))

	return b.String()
}

// State returns the current online state.
func (m OnlineLobbyModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the match ID if a match was started.
func (m OnlineLobbyModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which side this session plays.
func (m OnlineLobbyModel) Side() match.Player {
	return m.side
}

// Settings returns the settings of the lobby or match.
func (m OnlineLobbyModel) Settings() match.Settings {
	return m.settings
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// OnlineMatchModel plays one online match. The coordinator owns the real
// table; this model sends keyboard input and draws a replica of the table
// rebuilt from each snapshot.
type OnlineMatchModel struct {
	coordinator MessageSender
	sessionID   multiplayer.SessionID
	matchID     multiplayer.MatchID
	side        match.Player
	replica     *airhockey.Game
	table       core.RuntimeConfig
	screen      *core.Screen
	keyMapper   *KeyMapper
	held        *HeldKeys
	input       core.MultiInputFrame
	tick        uint64
	ended       *multiplayer.MatchEndedEvent
	backToMenu  bool
	quitting    bool
}

// NewOnlineMatchModel creates the view of a started match. table is the
// size and tick rate the coordinator runs the match with.
func NewOnlineMatchModel(
	coordinator MessageSender,
	sessionID multiplayer.SessionID,
	started multiplayer.MatchStartedEvent,
	opts registry.Options,
	table core.RuntimeConfig,
	width, height int,
) OnlineMatchModel {
	opts.Settings = started.Settings
	return OnlineMatchModel{
		coordinator: coordinator,
		sessionID:   sessionID,
		matchID:     started.MatchID,
		side:        started.Side,
		replica:     airhockey.NewDuel(opts),
		table:       table,
		screen:      core.NewScreen(width, height),
		keyMapper:   NewOnlineKeyMapper(started.Side),
		held:        NewHeldKeys(table.TicksFor(holdWindow)),
		input:       core.NewMultiInputFrame(),
	}
}

// Init sizes the replica like the authoritative table and starts the
// input loop.
func (m OnlineMatchModel) Init() tea.Cmd {
	m.replica.Reset(m.table)
	return tickCmd(m.table.TickRate)
}

// Update handles messages.
func (m OnlineMatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
	case TickMsg:
		if m.ended != nil {
			return m, nil
		}
		m.sendInput()
		return m, tickCmd(m.table.TickRate)
	case multiplayer.SnapshotEvent:
		if snap, ok := msg.Snapshot.(airhockey.Snapshot); ok && msg.MatchID == m.matchID {
			m.replica.ApplySnapshot(snap)
		}
	case multiplayer.MatchEndedEvent:
		if msg.MatchID == m.matchID {
			m.ended = &msg
			m.held.Release()
		}
	}
	return m, nil
}

func (m OnlineMatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	player, action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack, action == core.ActionConfirm:
		if m.ended != nil || action == core.ActionBack {
			m.leave()
			m.backToMenu = true
		}
	case isMovement(action):
		m.held.Press(player, action)
	case action == core.ActionPause:
		m.input.Press(player, action)
	}
	return m, nil
}

// sendInput forwards this tick's input for the session's side.
func (m *OnlineMatchModel) sendInput() {
	m.held.Apply(&m.input)
	m.tick++
	frame := m.input.Player(m.side)
	if len(frame.Actions) > 0 {
		m.coordinator.Send(multiplayer.PlayerInputMsg{
			MatchID:  m.matchID,
			Player:   m.side,
			TickHint: m.tick,
			Input:    frame.Clone(),
		})
	}
	m.input.Clear()
}

// leave forfeits a match still in play.
func (m OnlineMatchModel) leave() {
	if m.ended != nil {
		return
	}
	m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
}

// View renders the replica table and, once over, the final result.
func (m OnlineMatchModel) View() string {
	if m.quitting {
		return ""
	}
	m.replica.Render(m.screen)
	if m.ended != nil {
		y := max(0, m.screen.Height()-1)
		m.screen.DrawTextCentered(y, m.endLine()+"  Enter: Menu", core.ColorYellow)
	}
	return RenderScreen(m.screen)
}

// endLine describes how the match ended from this session's point of view.
func (m OnlineMatchModel) endLine() string {
	e := m.ended
	score := fmt.Sprintf("%d - %d", e.LeftGoals, e.RightGoals)
	winner, decided := e.Result.Winner()
	switch {
	case e.Reason == multiplayer.MatchEndReasonDisconnect && decided && winner == m.side:
		return "Opponent left, you win! " + score
	case e.Reason == multiplayer.MatchEndReasonDisconnect:
		return "You left the match. " + score
	case e.Reason == multiplayer.MatchEndReasonCancelled:
		return "Match cancelled. " + score
	case !decided:
		return "Tie game. " + score
	case winner == m.side:
		return "You win! " + score
	default:
		return "You lose. " + score
	}
}

// Ended returns the end event once the match is over.
func (m OnlineMatchModel) Ended() *multiplayer.MatchEndedEvent {
	return m.ended
}

// Replica returns the display copy of the table.
func (m OnlineMatchModel) Replica() *airhockey.Game {
	return m.replica
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineMatchModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineMatchModel) IsQuitting() bool {
	return m.quitting
}
