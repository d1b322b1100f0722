package multiplayer

import (
	"sync"

	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the coordinator and matches to send events without depending on Wish/Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Name returns the player's display name.
	Name() string

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; implementations should use buffered channels.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// Seat is the side a session plays in a running online match.
type Seat struct {
	MatchID MatchID
	Side    match.Player
}

// ChannelSession is a SessionHandle implementation using Go channels.
// Used by the TUI layer to bridge SSH sessions with the coordinator.
//
// Snapshots arrive every tick and each one supersedes the last, so when the
// buffer is full they are the first to go. Lobby and match events are only
// dropped when nothing but such events is queued.
type ChannelSession struct {
	id       SessionID
	name     string
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once

	mu      sync.Mutex // Serializes senders
	seat    *Seat
	dropped int // Snapshots discarded for a slow reader
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize controls how many events can be buffered before dropping.
func NewChannelSession(id SessionID, name string, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64 // Default buffer size
	}
	return &ChannelSession{
		id:     id,
		name:   name,
		events: make(chan SessionEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Name returns the player's display name, or the session ID when unnamed.
func (s *ChannelSession) Name() string {
	if s.name == "" {
		return string(s.id)
	}
	return s.name
}

// Send queues an event for the session without blocking.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.track(evt)

	select {
	case s.events <- evt:
		return
	default:
	}

	if _, ok := evt.(SnapshotEvent); ok {
		// The next tick brings a newer one.
		s.dropped++
		return
	}
	s.makeRoom()

	select {
	case s.events <- evt:
	default:
	}
}

// makeRoom clears queued snapshots, keeping the other events in order. If
// only lobby and match events are queued, the oldest one goes.
func (s *ChannelSession) makeRoom() {
	var kept []SessionEvent
	for drained := false; !drained; {
		select {
		case e := <-s.events:
			if _, ok := e.(SnapshotEvent); ok {
				s.dropped++
				continue
			}
			kept = append(kept, e)
		default:
			drained = true
		}
	}
	if len(kept) == cap(s.events) {
		kept = kept[1:]
	}
	for _, e := range kept {
		s.events <- e
	}
}

// track follows the match the session is seated in.
func (s *ChannelSession) track(evt SessionEvent) {
	switch e := evt.(type) {
	case MatchStartedEvent:
		s.seat = &Seat{MatchID: e.MatchID, Side: e.Side}
	case MatchEndedEvent:
		if s.seat != nil && e.MatchID == s.seat.MatchID {
			s.seat = nil
		}
	}
}

// Seat returns the match the session is playing, if any.
func (s *ChannelSession) Seat() (Seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seat == nil {
		return Seat{}, false
	}
	return *s.seat, true
}

// DroppedSnapshots counts snapshots discarded because the reader fell behind.
func (s *ChannelSession) DroppedSnapshots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Events returns the channel to receive events from.
// The TUI layer reads from this channel.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks the connected players.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Seated counts sessions currently playing an online match.
func (r *SessionRegistry) Seated() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.sessions {
		if cs, ok := s.(*ChannelSession); ok {
			if _, seated := cs.Seat(); seated {
				n++
			}
		}
	}
	return n
}
