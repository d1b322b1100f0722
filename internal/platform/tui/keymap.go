package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Seating decides which mallet each set of movement keys drives.
type Seating int

const (
	// SeatingSolo lets both WASD and the arrows drive the left mallet.
	SeatingSolo Seating = iota
	// SeatingDuel splits the keyboard: WASD left, arrows right.
	SeatingDuel
	// SeatingOnline sends every movement key to the session's own side.
	SeatingOnline
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	seating Seating
	side    match.Player // own side for SeatingOnline
}

// NewKeyMapper creates a key mapper for a single human at the left mallet.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{seating: SeatingSolo}
}

// NewDuelKeyMapper creates a key mapper for two players sharing a keyboard.
func NewDuelKeyMapper() *KeyMapper {
	return &KeyMapper{seating: SeatingDuel}
}

// NewOnlineKeyMapper creates a key mapper for one side of an online match.
func NewOnlineKeyMapper(side match.Player) *KeyMapper {
	return &KeyMapper{seating: SeatingOnline, side: side}
}

// MapKey translates a key message to an action and the side it belongs to.
// Non-movement actions are reported for the mapper's primary side.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player match.Player, action core.Action, isQuit bool) {
	key := msg.String()
	primary := km.primary()

	switch key {
	case "ctrl+c", "q":
		return primary, core.ActionQuit, true
	}

	switch key {
	case "w":
		return primary, core.ActionUp, false
	case "s":
		return primary, core.ActionDown, false
	case "a":
		return primary, core.ActionLeft, false
	case "d":
		return primary, core.ActionRight, false
	case "up":
		return km.arrowSide(), core.ActionUp, false
	case "down":
		return km.arrowSide(), core.ActionDown, false
	case "left":
		return km.arrowSide(), core.ActionLeft, false
	case "right":
		return km.arrowSide(), core.ActionRight, false
	case "enter":
		return primary, core.ActionConfirm, false
	case "b", "esc":
		return primary, core.ActionBack, false
	case "p", " ":
		return primary, core.ActionPause, false
	case "r":
		return primary, core.ActionRestart, false
	}

	return primary, core.ActionNone, false
}

func (km *KeyMapper) primary() match.Player {
	if km.seating == SeatingOnline {
		return km.side
	}
	return match.LeftPlayer
}

func (km *KeyMapper) arrowSide() match.Player {
	if km.seating == SeatingDuel {
		return match.RightPlayer
	}
	return km.primary()
}

// MapKeyToMultiFrame updates a multi-input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	player, action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Press(player, action)
	}
	return isQuit
}

// isMovement reports whether the action steers a mallet.
func isMovement(a core.Action) bool {
	switch a {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		return true
	default:
		return false
	}
}

// opposite returns the movement that cancels a.
func opposite(a core.Action) core.Action {
	switch a {
	case core.ActionUp:
		return core.ActionDown
	case core.ActionDown:
		return core.ActionUp
	case core.ActionLeft:
		return core.ActionRight
	case core.ActionRight:
		return core.ActionLeft
	default:
		return core.ActionNone
	}
}

// HeldKeys turns discrete key presses into held movement.
// Terminals report key repeats, not key releases, so a press keeps its
// direction active for a short window that each repeat renews.
type HeldKeys struct {
	window int
	ticks  map[match.Player]map[core.Action]int
}

// NewHeldKeys creates a tracker that holds a press for window ticks.
func NewHeldKeys(window int) *HeldKeys {
	return &HeldKeys{
		window: max(1, window),
		ticks:  make(map[match.Player]map[core.Action]int),
	}
}

// Press starts or renews a movement and drops the opposite direction.
func (h *HeldKeys) Press(p match.Player, a core.Action) {
	if !isMovement(a) {
		return
	}
	held, ok := h.ticks[p]
	if !ok {
		held = make(map[core.Action]int)
		h.ticks[p] = held
	}
	delete(held, opposite(a))
	held[a] = h.window
}

// Apply adds every held movement to frame and ages the holds by one tick.
func (h *HeldKeys) Apply(frame *core.MultiInputFrame) {
	for p, held := range h.ticks {
		for a, left := range held {
			frame.Press(p, a)
			if left <= 1 {
				delete(held, a)
			} else {
				held[a] = left - 1
			}
		}
	}
}

// Release drops every held movement.
func (h *HeldKeys) Release() {
	clear(h.ticks)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionHistory
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h", "-":
		return MenuActionLeft
	case "d", "right", "l", "+", "=":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionHistory
	}

	return MenuActionNone
}
