// Package airhockey implements a two-player air-hockey table.
// The left mallet is always human; the right one is driven by the CPU,
// a second player at the same keyboard, or a remote session.
package airhockey

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-airhockey/internal/config"
	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
	"github.com/vovakirdan/tui-airhockey/internal/registry"
)

// Registered variant IDs.
const (
	VersusCPUID = "airhockey"
	DuelID      = "airhockey_duel"
)

// Game implements the air-hockey table and its match lifecycle.
type Game struct {
	id    string
	title string
	cpu   *cpuPlayer // nil when both mallets are human

	// Match
	settings match.Settings
	rules    match.Rules
	score    *match.Score
	view     match.Tally // Score shown by Render; a mirror on replicas
	outcome  match.Outcome
	stopped  bool

	// Table
	table      config.AirHockeyConfig
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig
	rink       rink
	left       mallet
	right      mallet
	puck       puck
	placement  *Placement

	// Timing
	paused     bool
	serveTicks int // Countdown before the puck is released
	tickCount  int // Ticks simulated since Reset
	clockTicks int // Ticks counted against the Time mode limit
	limitTicks int
	goalFlash  int
	lastScorer match.Player

	rng *rand.Rand
}

// New creates a game against the CPU.
func New(opts registry.Options) *Game {
	g := newGame(opts)
	g.id = VersusCPUID
	g.title = "Air Hockey"
	g.cpu = newCPUPlayer()
	return g
}

// NewDuel creates a game for two human players, locally or online.
func NewDuel(opts registry.Options) *Game {
	g := newGame(opts)
	g.id = DuelID
	g.title = "Air Hockey (Duel)"
	return g
}

func newGame(opts registry.Options) *Game {
	return &Game{
		settings:   opts.Settings,
		rules:      match.NewRules(opts.Settings),
		table:      opts.Table,
		difficulty: config.NewDifficultyManager(opts.Table.Difficulty),
		left:       mallet{side: match.LeftPlayer},
		right:      mallet{side: match.RightPlayer},
	}
}

// ID returns the variant identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Settings returns the match settings.
func (g *Game) Settings() match.Settings {
	return g.settings
}

// Reset starts a new match: a fresh score, mallets at their start spots and
// the puck at the neutral centre.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.rink = newRink(runtime.ScreenW, runtime.ScreenH, g.table.Rink.GoalHeight)
	g.placement = newPlacement(g.rink, &g.left, &g.right, &g.puck)

	g.score = match.NewScore()
	g.view = g.score
	g.stopped = false
	g.paused = false
	g.tickCount = 0
	g.clockTicks = 0
	g.goalFlash = 0
	g.limitTicks = runtime.TicksFor(g.settings.Duration())

	g.placement.StartMatch()
	g.serveTicks = max(0, g.table.Rink.ServeDelay)
	if g.serveTicks == 0 {
		g.release()
	}
	if g.cpu != nil {
		g.cpu.reset()
	}

	g.outcome = must(g.rules.Evaluate(g.score))
	g.checkClock()
}

// Step advances the table by one tick.
func (g *Game) Step(in core.MultiInputFrame) core.StepResult {
	if g.outcome.Finished {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	if g.goalFlash > 0 {
		g.goalFlash--
	}

	if g.settings.Mode() == match.Time {
		g.clockTicks++
		if g.checkClock() {
			return core.StepResult{State: g.State()}
		}
	}

	if g.placement.Moving() {
		g.placement.Step()
	} else {
		g.moveMallet(&g.left, in.Player(match.LeftPlayer))
		if g.cpu != nil {
			g.moveMallet(&g.right, g.cpu.frame(g))
		} else {
			g.moveMallet(&g.right, in.Player(match.RightPlayer))
		}
	}

	if g.serveTicks > 0 {
		g.serveTicks--
		if g.serveTicks == 0 {
			g.release()
		}
		return core.StepResult{State: g.State()}
	}

	scorer, scored := g.updatePuck()
	if !scored {
		return core.StepResult{State: g.State()}
	}

	g.goal(scorer)
	return core.StepResult{State: g.State(), Goal: true, Scorer: scorer}
}

// Stop ends an unfinished match, deciding it by the current score.
func (g *Game) Stop() core.GameState {
	if g.score == nil {
		// Never reset, nothing to decide.
		return g.State()
	}
	if !g.outcome.Finished {
		g.outcome = g.rules.Finish(g.score)
		g.stopped = true
		g.placement.StopAll()
	}
	return g.State()
}

// Stopped reports whether the match was ended by Stop rather than by its rules.
func (g *Game) Stopped() bool {
	return g.stopped
}

// State returns the current state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Result:   g.outcome.Result,
		Finished: g.outcome.Finished,
		Paused:   g.paused,
		Serving:  g.serveTicks > 0,
	}
	if g.view != nil {
		st.LeftGoals = g.view.LeftGoals()
		st.RightGoals = g.view.RightGoals()
	}
	if g.settings.Mode() == match.Time {
		st.Remaining = g.remaining()
	}
	return st
}

func (g *Game) remaining() time.Duration {
	return g.runtime.DurationFor(g.limitTicks - g.clockTicks)
}

// checkClock ends a Time mode match once its limit is reached.
func (g *Game) checkClock() bool {
	if g.settings.Mode() != match.Time || g.outcome.Finished {
		return false
	}
	if g.clockTicks < g.limitTicks {
		return false
	}
	g.outcome = must(g.rules.TimeUp(g.score))
	g.placement.StopAll()
	return true
}

// moveMallet applies one tick of directional input, keeping the mallet in
// its own half.
func (g *Game) moveMallet(m *mallet, in core.InputFrame) {
	step := in.Direction().Normalize().Scale(g.table.Physics.MalletSpeed)
	lo, hi := g.rink.half(m.side)
	next := m.pos.Add(step)
	next.X = core.ClampF(next.X, lo, hi)
	next.Y = core.ClampF(next.Y, g.rink.minY, g.rink.maxY)
	m.moveTo(next)
}

// release ends the serve countdown. A puck at the neutral spot is served
// towards a random side; a puck placed after a goal waits to be struck.
func (g *Game) release() {
	if g.puck.pos != g.rink.neutralSpot() {
		return
	}
	dir := -1.0
	if g.rng.Intn(2) == 1 {
		dir = 1.0
	}
	angle := (g.rng.Float64() - 0.5) * 0.8
	g.puck.vel = core.Vec{X: dir, Y: angle}.Normalize().Scale(g.table.Physics.ServeSpeed)
}

// updatePuck moves the puck and reports a goal when it enters a mouth.
func (g *Game) updatePuck() (match.Player, bool) {
	p := g.table.Physics
	r := g.rink

	g.puck.pos = g.puck.pos.Add(g.puck.vel)
	g.puck.vel = g.puck.vel.Scale(p.Friction)

	// Side boards
	if g.puck.pos.Y < r.minY {
		g.puck.pos.Y = r.minY
		g.puck.vel.Y = -g.puck.vel.Y * p.WallBounce
	}
	if g.puck.pos.Y > r.maxY {
		g.puck.pos.Y = r.maxY
		g.puck.vel.Y = -g.puck.vel.Y * p.WallBounce
	}

	// End boards and goal mouths
	if g.puck.pos.X < r.minX {
		if r.inGoalMouth(g.puck.pos.Y) {
			return match.RightPlayer, true
		}
		g.puck.pos.X = r.minX
		g.puck.vel.X = -g.puck.vel.X * p.WallBounce
	}
	if g.puck.pos.X > r.maxX {
		if r.inGoalMouth(g.puck.pos.Y) {
			return match.LeftPlayer, true
		}
		g.puck.pos.X = r.maxX
		g.puck.vel.X = -g.puck.vel.X * p.WallBounce
	}

	g.strike(&g.left)
	g.strike(&g.right)

	limit := g.difficulty.Speed(p.MaxPuckSpeed, g.totalGoals(), g.tickCount)
	g.puck.vel = g.puck.vel.Limit(limit)
	return 0, false
}

// strike resolves contact between a mallet and the puck.
func (g *Game) strike(m *mallet) {
	radius := g.table.Rink.MalletRadius
	d := g.puck.pos.Sub(m.pos)
	dist := d.Len()
	if dist >= radius {
		return
	}

	n := d.Normalize()
	if dist == 0 {
		// Push towards the opponent's goal.
		n = core.Vec{X: 1}
		if m.side == match.RightPlayer {
			n.X = -1
		}
	}
	g.puck.pos = m.pos.Add(n.Scale(radius))

	rel := g.puck.vel.Sub(m.vel)
	if along := rel.Dot(n); along < 0 {
		g.puck.vel = g.puck.vel.Sub(n.Scale(2 * along * g.table.Physics.WallBounce))
	}
	g.puck.vel = g.puck.vel.Add(m.vel.Scale(g.table.Physics.HitBoost))

	g.puck.pos.X = core.ClampF(g.puck.pos.X, g.rink.minX, g.rink.maxX)
	g.puck.pos.Y = core.ClampF(g.puck.pos.Y, g.rink.minY, g.rink.maxY)
}

// goal records a goal and either ends the match or starts a new serve.
func (g *Game) goal(scorer match.Player) {
	check(g.score.ScoreGoal(scorer))
	g.lastScorer = scorer
	g.goalFlash = max(1, g.runtime.TickRate)

	g.outcome = must(g.rules.Evaluate(g.score))
	if g.outcome.Finished {
		g.placement.StopAll()
		return
	}

	check(g.placement.ResetPlayers(g.table.Rink.ServeDelay))
	check(g.placement.PlacePuck(scorer.Opponent()))
	g.serveTicks = max(0, g.table.Rink.ServeDelay)
}

func (g *Game) totalGoals() int {
	return int(g.score.LeftGoals() + g.score.RightGoals())
}

// must and check turn a rules or placement error into a panic. Settings
// are validated before a game is built, so an error here is a bug.
func must[T any](v T, err error) T {
	check(err)
	return v
}

func check(err error) {
	if err != nil {
		panic(fmt.Sprintf("airhockey: %v", err))
	}
}

func init() {
	registry.Register(registry.GameInfo{ID: VersusCPUID, Title: "Air Hockey", Seats: 1},
		func(opts registry.Options) registry.Game { return New(opts) })
	registry.Register(registry.GameInfo{ID: DuelID, Title: "Air Hockey (Duel)", Seats: 2},
		func(opts registry.Options) registry.Game { return NewDuel(opts) })
}
