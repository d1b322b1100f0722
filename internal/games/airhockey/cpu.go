package airhockey

import (
	"math"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Tolerance before the CPU bothers to move along an axis.
const cpuDeadZone = 0.4

// cpuPlayer drives the right mallet through the same input frames a human
// would produce. Lower skill means slower reactions and a sloppier aim.
type cpuPlayer struct {
	target core.Vec
	wait   int     // Ticks until the next decision
	wobble float64 // Aim error in rows
}

func newCPUPlayer() *cpuPlayer {
	return &cpuPlayer{}
}

func (c *cpuPlayer) reset() {
	c.target = core.Vec{}
	c.wait = 0
	c.wobble = 0
}

// frame returns this tick's input for the right mallet.
func (c *cpuPlayer) frame(g *Game) core.InputFrame {
	skill := g.difficulty.Skill(g.table.CPU, g.totalGoals(), g.tickCount)

	if c.wait <= 0 {
		c.wait = int(math.Round((1-skill)*12)) + 1
		c.wobble = (g.rng.Float64() - 0.5) * (1 - skill) * 6
		c.target = c.decide(g)
	}
	c.wait--

	in := core.NewInputFrame()
	d := c.target.Sub(g.right.pos)
	switch {
	case d.X > cpuDeadZone:
		in.Set(core.ActionRight)
	case d.X < -cpuDeadZone:
		in.Set(core.ActionLeft)
	}
	switch {
	case d.Y > cpuDeadZone:
		in.Set(core.ActionDown)
	case d.Y < -cpuDeadZone:
		in.Set(core.ActionUp)
	}
	return in
}

// decide picks where the mallet should head next.
func (c *cpuPlayer) decide(g *Game) core.Vec {
	r := g.rink
	home := r.startSpot(match.RightPlayer)
	pk := g.puck.pos

	if pk.X <= r.centerX {
		// Shadow the puck in front of the goal.
		y := core.ClampF(pk.Y+c.wobble, r.goalTop, r.goalBottom)
		return core.Vec{X: home.X, Y: y}
	}

	// Get between the puck and the goal first, then strike through it.
	if g.right.pos.X <= pk.X {
		return core.Vec{X: pk.X + g.table.Rink.MalletRadius, Y: pk.Y}
	}
	return core.Vec{X: pk.X - 1, Y: pk.Y + c.wobble/2}
}
