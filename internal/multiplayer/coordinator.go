package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Lobby represents a waiting room for a match.
type Lobby struct {
	Code      string
	GameID    string
	Settings  match.Settings
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an empty lobby expires
	TickRate      int           // Game tick rate (Hz)
	CleanupPeriod time.Duration // How often to clean up expired lobbies
	ScreenW       int           // Table size shared by both players
	ScreenH       int
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
		ScreenW:       80,
		ScreenH:       24,
	}
}

// GameFactory creates game instances for matches.
type GameFactory func(gameID string, settings match.Settings) (OnlineGame, error)

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID      string
	GameID       string
	Settings     match.Settings
	LeftName     string
	RightName    string
	LeftGoals    uint32
	RightGoals   uint32
	Result       match.Result
	EndReason    string
	DurationSecs int
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	gameFactory GameFactory
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	saves    sync.WaitGroup
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory GameFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:       cfg,
		gameFactory:  factory,
		sessions:     sessions,
		logger:       log.Default(),
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// SetLogger replaces the default logger.
func (c *Coordinator) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator, stops running matches and waits for
// pending result saves.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.RLock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.RUnlock()

		c.saves.Wait()
	})
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}
	if _, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a match"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		GameID:    msg.GameID,
		Settings:  msg.Settings,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "host", session.Name(), "settings", msg.Settings.Describe())
	session.Send(LobbyCreatedEvent{Code: code, GameID: msg.GameID, Settings: msg.Settings})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}
	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{
		Code:         code,
		Side:         match.LeftPlayer,
		OpponentID:   session.ID(),
		OpponentName: session.Name(),
		Settings:     lobby.Settings,
	})
	session.Send(LobbyJoinedEvent{
		Code:         code,
		Side:         match.RightPlayer,
		OpponentID:   lobby.Host.ID(),
		OpponentName: lobby.Host.Name(),
		Settings:     lobby.Settings,
	})

	c.startMatch(lobby)
}

// startMatch turns a full lobby into a running match.
// Must be called with c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := NewMatchID()

	game, err := c.gameFactory(lobby.GameID, lobby.Settings)
	if err != nil {
		c.logger.Error("cannot create game", "code", lobby.Code, "game", lobby.GameID, "err", err)
		lobby.Host.Send(LobbyErrorEvent{Message: "Failed to create game"})
		lobby.Joiner.Send(LobbyErrorEvent{Message: "Failed to create game"})
		delete(c.sessionLobby, lobby.Host.ID())
		delete(c.sessionLobby, lobby.Joiner.ID())
		delete(c.lobbies, lobby.Code)
		return
	}
	game.Reset(core.RuntimeConfig{
		ScreenW:  c.config.ScreenW,
		ScreenH:  c.config.ScreenH,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	})

	om := NewOnlineMatch(matchID, lobby.Code, lobby.GameID, lobby.Settings, game, lobby.Host, lobby.Joiner, c.config.TickRate)
	c.matches[matchID] = om

	hostID := lobby.Host.ID()
	joinerID := lobby.Joiner.ID()
	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	lobby.Host.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     match.LeftPlayer,
		Code:     lobby.Code,
		Settings: lobby.Settings,
	})
	lobby.Joiner.Send(MatchStartedEvent{
		MatchID:  matchID,
		Side:     match.RightPlayer,
		Code:     lobby.Code,
		Settings: lobby.Settings,
	})

	c.logger.Info("match started",
		"match", matchID,
		"left", lobby.Host.Name(),
		"right", lobby.Joiner.Name(),
		"settings", lobby.Settings.Describe(),
	)

	go om.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	om, exists := c.matches[matchID]
	if !exists {
		return
	}

	c.logger.Info("match ended",
		"match", matchID,
		"reason", result.Reason.Key(),
		"score", fmt.Sprintf("%d-%d", result.LeftGoals, result.RightGoals),
		"result", result.Result,
	)

	if c.resultSaver != nil {
		tickRate := max(1, c.config.TickRate)
		data := MatchResultData{
			MatchID:      string(matchID),
			GameID:       om.GameID(),
			Settings:     om.Settings(),
			LeftName:     om.Session(match.LeftPlayer).Name(),
			RightName:    om.Session(match.RightPlayer).Name(),
			LeftGoals:    result.LeftGoals,
			RightGoals:   result.RightGoals,
			Result:       result.Result,
			EndReason:    result.Reason.Key(),
			DurationSecs: int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		saver := c.resultSaver
		c.saves.Add(1)
		go func() {
			defer c.saves.Done()
			if err := saver.SaveMatchResult(data); err != nil {
				c.logger.Warn("cannot save match result", "match", data.MatchID, "err", err)
			}
		}()
	}

	for _, p := range match.Players {
		delete(c.sessionMatch, om.Session(p).ID())
	}
	delete(c.matches, matchID)

	endEvent := MatchEndedEvent{
		MatchID:    matchID,
		Reason:     result.Reason,
		Result:     result.Result,
		LeftGoals:  result.LeftGoals,
		RightGoals: result.RightGoals,
	}
	for _, p := range match.Players {
		om.Session(p).Send(endEvent)
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists {
		return
	}

	// Only host can cancel
	if lobby.Host.ID() != msg.SessionID {
		return
	}

	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Info("lobby cancelled", "code", code)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists {
		return
	}

	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
		return
	}

	// Host leaving closes the lobby.
	if lobby.Host.ID() == msg.SessionID {
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	om, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	om.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	om, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	om.SendInput(msg.Player, msg.Input)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			switch {
			case lobby.Host.ID() == msg.SessionID:
				if lobby.Joiner != nil {
					lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft})
					delete(c.sessionLobby, lobby.Joiner.ID())
				}
				delete(c.lobbies, code)
			case lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID:
				lobby.Joiner = nil
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if om, exists := c.matches[matchID]; exists {
			om.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies(time.Now())
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for code, lobby := range c.lobbies {
		// Only expire lobbies without joiners
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
			c.logger.Debug("lobby expired", "code", code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// Use base32 encoding (A-Z, 2-7), take first 6 chars
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// GetLobby returns a lobby by code (for testing/debug).
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID (for testing/debug).
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of active lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
