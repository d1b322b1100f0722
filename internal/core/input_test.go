package core

import (
	"testing"

	"github.com/vovakirdan/tui-airhockey/internal/match"
)

func TestInputFrameDirection(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionUp)
	f.Set(ActionRight)

	if d := f.Direction(); d != (Vec{1, -1}) {
		t.Errorf("Direction() = %v, expected {1 -1}", d)
	}

	f.Set(ActionDown)
	if d := f.Direction(); d != (Vec{1, 0}) {
		t.Errorf("Opposite keys should cancel, got %v", d)
	}

	f.Clear()
	if f.Has(ActionRight) {
		t.Error("Clear() should reset actions")
	}
}

func TestMultiInputFrame(t *testing.T) {
	m := NewMultiInputFrame()
	m.Press(match.RightPlayer, ActionLeft)

	if !m.Player(match.RightPlayer).Has(ActionLeft) {
		t.Error("Press() should mark the action for the right player")
	}
	if m.Player(match.LeftPlayer).Has(ActionLeft) {
		t.Error("Press() should not leak to the left player")
	}
	if !m.Has(ActionLeft) {
		t.Error("Has() should see actions from either side")
	}

	c := m.Clone()
	m.Clear()
	if m.Has(ActionLeft) {
		t.Error("Clear() should reset all players")
	}
	if !c.Player(match.RightPlayer).Has(ActionLeft) {
		t.Error("Clone() should be independent of the original")
	}
}
