package airhockey

import (
	"math"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/multiplayer"
)

// fixed is the scale applied to positions and velocities in snapshots.
const fixed = 1000

// Snapshot contains the complete table state for network transmission.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64
	PuckX      int
	PuckY      int
	PuckVX     int
	PuckVY     int
	LeftX      int
	LeftY      int
	RightX     int
	RightY     int
	LeftGoals  uint32
	RightGoals uint32
	Finished   bool
	Result     match.Result
	Paused     bool
	ServeTicks int
	ClockTicks int
	GoalFlash  int
	LastScorer match.Player
}

// IsGameSnapshot implements the GameSnapshot interface marker.
func (Snapshot) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = Snapshot{}

// tally is a read-only score restored from a snapshot.
type tally struct {
	left, right uint32
}

func (t tally) LeftGoals() uint32  { return t.left }
func (t tally) RightGoals() uint32 { return t.right }

// Snapshot returns the current state.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	st := g.State()
	return Snapshot{
		Tick:       uint64(max(0, g.tickCount)), //nolint:gosec // tickCount is never negative
		PuckX:      toFixed(g.puck.pos.X),
		PuckY:      toFixed(g.puck.pos.Y),
		PuckVX:     toFixed(g.puck.vel.X),
		PuckVY:     toFixed(g.puck.vel.Y),
		LeftX:      toFixed(g.left.pos.X),
		LeftY:      toFixed(g.left.pos.Y),
		RightX:     toFixed(g.right.pos.X),
		RightY:     toFixed(g.right.pos.Y),
		LeftGoals:  st.LeftGoals,
		RightGoals: st.RightGoals,
		Finished:   st.Finished,
		Result:     st.Result,
		Paused:     st.Paused,
		ServeTicks: g.serveTicks,
		ClockTicks: g.clockTicks,
		GoalFlash:  g.goalFlash,
		LastScorer: g.lastScorer,
	}
}

// ApplySnapshot makes this game a display replica of a remote table.
// The replica's own score is left untouched; Render shows the remote one.
func (g *Game) ApplySnapshot(snap Snapshot) {
	g.tickCount = int(min(snap.Tick, math.MaxInt)) //nolint:gosec // clamped to max int
	g.puck.pos = core.Vec{X: fromFixed(snap.PuckX), Y: fromFixed(snap.PuckY)}
	g.puck.vel = core.Vec{X: fromFixed(snap.PuckVX), Y: fromFixed(snap.PuckVY)}
	g.left.pos = core.Vec{X: fromFixed(snap.LeftX), Y: fromFixed(snap.LeftY)}
	g.right.pos = core.Vec{X: fromFixed(snap.RightX), Y: fromFixed(snap.RightY)}
	g.view = tally{left: snap.LeftGoals, right: snap.RightGoals}
	g.outcome = match.Outcome{Finished: snap.Finished, Result: snap.Result}
	g.paused = snap.Paused
	g.serveTicks = snap.ServeTicks
	g.clockTicks = snap.ClockTicks
	g.goalFlash = snap.GoalFlash
	g.lastScorer = snap.LastScorer
}

func toFixed(v float64) int {
	return int(math.Round(v * fixed))
}

func fromFixed(v int) float64 {
	return float64(v) / fixed
}
