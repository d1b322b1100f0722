package core

import (
	"math"
	"math/bits"
	"time"

	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TicksFor converts a wall-clock duration into simulation ticks, rounding
// down. Results past math.MaxInt saturate.
func (c RuntimeConfig) TicksFor(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(d), uint64(c.rate()))
	if hi >= uint64(time.Second) {
		return math.MaxInt
	}
	q, _ := bits.Div64(hi, lo, uint64(time.Second))
	if q > math.MaxInt {
		return math.MaxInt
	}
	return int(q)
}

// DurationFor converts simulation ticks into wall-clock time, rounding down.
// Results past the largest time.Duration saturate.
func (c RuntimeConfig) DurationFor(ticks int) time.Duration {
	if ticks <= 0 {
		return 0
	}
	rate := uint64(c.rate())
	hi, lo := bits.Mul64(uint64(ticks), uint64(time.Second))
	if hi >= rate {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, rate)
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return time.Duration(q)
}

func (c RuntimeConfig) rate() int {
	return max(1, c.TickRate)
}

// GameState is the platform-facing view of a running match.
type GameState struct {
	LeftGoals  uint32
	RightGoals uint32
	Result     match.Result  // Live until Finished, final afterwards
	Finished   bool          // Whether the match has ended
	Paused     bool          // Whether the game is paused
	Serving    bool          // Play is suspended after a goal
	Remaining  time.Duration // Time left in a Time mode match
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState

	// Goal is set on the tick a goal was scored; Scorer names the side.
	Goal   bool
	Scorer match.Player
}
