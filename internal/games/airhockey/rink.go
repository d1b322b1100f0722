package airhockey

import (
	"math"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Smallest table the simulation supports; smaller screens are padded.
const (
	minRinkWidth  = 24
	minRinkHeight = 10
)

// rink is the table geometry in screen cells.
// Row 0 is the HUD, row 1 and the last row are the side boards, and the
// first and last columns are the end boards with a goal mouth in the middle.
type rink struct {
	width, height int

	minX, maxX float64 // Puck/mallet centre limits
	minY, maxY float64
	centerX    float64
	centerY    float64

	goalTop    float64
	goalBottom float64
}

func newRink(screenW, screenH, goalHeight int) rink {
	w := max(screenW, minRinkWidth)
	h := max(screenH, minRinkHeight)

	r := rink{
		width:  w,
		height: h,
		minX:   1,
		maxX:   float64(w - 2),
		minY:   2,
		maxY:   float64(h - 2),
	}
	r.centerX = float64(w-1) / 2
	r.centerY = (r.minY + r.maxY) / 2

	rows := int(r.maxY-r.minY) + 1
	gh := core.Clamp(goalHeight, 1, rows)
	r.goalTop = math.Ceil(r.centerY - float64(gh-1)/2)
	r.goalBottom = r.goalTop + float64(gh-1)
	return r
}

// inGoalMouth reports whether a puck at row y would enter a goal.
func (r rink) inGoalMouth(y float64) bool {
	return y >= r.goalTop-0.5 && y <= r.goalBottom+0.5
}

// half returns the x range a player's mallet may use.
func (r rink) half(p match.Player) (lo, hi float64) {
	if p == match.LeftPlayer {
		return r.minX, r.centerX - 1
	}
	return r.centerX + 1, r.maxX
}

// startSpot is where a player's mallet waits for a serve.
func (r rink) startSpot(p match.Player) core.Vec {
	quarter := (r.maxX - r.minX) / 8
	if p == match.LeftPlayer {
		return core.Vec{X: r.minX + quarter, Y: r.centerY}
	}
	return core.Vec{X: r.maxX - quarter, Y: r.centerY}
}

// puckSpot is where the puck is placed for the player who conceded.
func (r rink) puckSpot(p match.Player) core.Vec {
	quarter := (r.maxX - r.minX) / 4
	if p == match.LeftPlayer {
		return core.Vec{X: r.centerX - quarter, Y: r.centerY}
	}
	return core.Vec{X: r.centerX + quarter, Y: r.centerY}
}

// neutralSpot is the centre of the table.
func (r rink) neutralSpot() core.Vec {
	return core.Vec{X: r.centerX, Y: r.centerY}
}

// mallet is a player's striker.
type mallet struct {
	side match.Player
	pos  core.Vec
	vel  core.Vec // Displacement during the last tick
}

// moveTo places the mallet and records the displacement as velocity.
func (m *mallet) moveTo(p core.Vec) {
	m.vel = p.Sub(m.pos)
	m.pos = p
}

// stop cancels any recorded velocity.
func (m *mallet) stop() {
	m.vel = core.Vec{}
}

// puck is the disc in play.
type puck struct {
	pos core.Vec
	vel core.Vec
}

// regroup places the puck at rest.
func (p *puck) regroup(at core.Vec) {
	p.pos = at
	p.vel = core.Vec{}
}
