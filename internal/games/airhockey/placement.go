package airhockey

import (
	"fmt"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Placement moves mallets and the puck to their serve positions: instantly
// at match start, and as a timed glide after each goal.
type Placement struct {
	rink   rink
	left   *mallet
	right  *mallet
	puck   *puck
	from   [2]core.Vec
	total  int
	remain int
}

// newPlacement binds a placement to the table objects it moves.
func newPlacement(r rink, left, right *mallet, pk *puck) *Placement {
	return &Placement{rink: r, left: left, right: right, puck: pk}
}

// StartMatch stops everything and puts mallets at their start spots and the
// puck at the neutral centre.
func (p *Placement) StartMatch() {
	p.StopAll()
	p.puck.regroup(p.rink.neutralSpot())
	p.left.pos = p.rink.startSpot(match.LeftPlayer)
	p.right.pos = p.rink.startSpot(match.RightPlayer)
}

// ResetPlayers glides both mallets back to their start spots over duration
// ticks. A zero duration snaps them immediately.
func (p *Placement) ResetPlayers(duration int) error {
	if duration < 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", match.ErrInvalidUsage, duration)
	}

	p.from = [2]core.Vec{p.left.pos, p.right.pos}
	p.total = duration
	p.remain = duration
	if duration == 0 {
		p.finishReset()
	}
	return nil
}

// Moving reports whether a reset glide is in progress.
func (p *Placement) Moving() bool {
	return p.remain > 0
}

// Step advances a reset glide by one tick.
func (p *Placement) Step() {
	if p.remain <= 0 {
		return
	}
	p.remain--
	if p.remain == 0 {
		p.finishReset()
		return
	}

	t := float64(p.total-p.remain) / float64(p.total)
	p.left.moveTo(p.from[0].Lerp(p.rink.startSpot(match.LeftPlayer), t))
	p.right.moveTo(p.from[1].Lerp(p.rink.startSpot(match.RightPlayer), t))
}

// Cancel aborts a reset glide, leaving the mallets where they are.
func (p *Placement) Cancel() {
	p.remain = 0
	p.left.stop()
	p.right.stop()
}

func (p *Placement) finishReset() {
	p.remain = 0
	p.left.pos = p.rink.startSpot(match.LeftPlayer)
	p.right.pos = p.rink.startSpot(match.RightPlayer)
	p.left.stop()
	p.right.stop()
}

// StopAll halts the mallets and the puck where they are.
func (p *Placement) StopAll() {
	p.Cancel()
	p.puck.vel = core.Vec{}
}

// PlacePuck puts the puck at rest on the given player's side.
func (p *Placement) PlacePuck(player match.Player) error {
	if !player.Valid() {
		return fmt.Errorf("%w: unknown player %d", match.ErrInvalidUsage, int(player))
	}
	p.puck.regroup(p.rink.puckSpot(player))
	return nil
}
