package core

import "github.com/vovakirdan/tui-airhockey/internal/match"

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - start a new match after the end
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single player during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Merge ORs the actions of other into f.
func (f *InputFrame) Merge(other InputFrame) {
	for a, pressed := range other.Actions {
		if pressed {
			f.Set(a)
		}
	}
}

// Direction returns the movement vector requested by this frame.
// Opposite keys cancel out.
func (f InputFrame) Direction() Vec {
	var d Vec
	if f.Has(ActionUp) {
		d.Y--
	}
	if f.Has(ActionDown) {
		d.Y++
	}
	if f.Has(ActionLeft) {
		d.X--
	}
	if f.Has(ActionRight) {
		d.X++
	}
	return d
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	c := NewInputFrame()
	c.Merge(f)
	return c
}

// MultiInputFrame holds one tick of input for both sides of the table.
// The platform fills it from the keyboard, the CPU or a remote session.
type MultiInputFrame struct {
	ByPlayer map[match.Player]InputFrame
}

// NewMultiInputFrame creates an empty multi-input frame.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[match.Player]InputFrame),
	}
}

// Player returns the input frame for one side, or an empty frame.
func (m MultiInputFrame) Player(p match.Player) InputFrame {
	if frame, ok := m.ByPlayer[p]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer sets the input frame for one side.
func (m *MultiInputFrame) SetPlayer(p match.Player, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[match.Player]InputFrame)
	}
	m.ByPlayer[p] = frame
}

// Press marks an action for one side.
func (m *MultiInputFrame) Press(p match.Player, a Action) {
	frame := m.Player(p)
	frame.Set(a)
	m.SetPlayer(p, frame)
}

// Has reports whether either side triggered the action.
func (m MultiInputFrame) Has(a Action) bool {
	for _, frame := range m.ByPlayer {
		if frame.Has(a) {
			return true
		}
	}
	return false
}

// Clear resets all player inputs for the next frame.
func (m *MultiInputFrame) Clear() {
	for _, frame := range m.ByPlayer {
		frame.Clear()
	}
}

// Clone creates a deep copy of this multi-input frame.
func (m MultiInputFrame) Clone() MultiInputFrame {
	c := NewMultiInputFrame()
	for p, frame := range m.ByPlayer {
		c.ByPlayer[p] = frame.Clone()
	}
	return c
}
