// Package registry provides a global registry for game variants.
// Variants register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-airhockey/internal/config"
	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Game is the interface the platform drives. Games contain pure logic with
// no Bubble Tea dependency; the platform handles input, timing and drawing.
type Game interface {
	// ID returns the variant identifier used on the command line and in
	// match history (e.g. "airhockey").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Settings returns the match settings the game was created with.
	Settings() match.Settings

	// Reset starts a fresh match with a new score.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.MultiInputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current state.
	State() core.GameState

	// Stop ends an unfinished match early, deciding it by the current score.
	Stop() core.GameState
}

// Options configures a new game instance.
type Options struct {
	Settings match.Settings
	Table    config.AirHockeyConfig
}

// DefaultOptions returns the embedded table defaults with their match settings.
func DefaultOptions() (Options, error) {
	table := config.DefaultAirHockeyConfig()
	settings, err := table.Match.Settings()
	if err != nil {
		return Options{}, err
	}
	return Options{Settings: settings, Table: table}, nil
}

// GameInfo contains metadata about a registered variant.
type GameInfo struct {
	ID    string
	Title string
	Seats int // Number of human players at one keyboard
}

// Factory creates a new game instance.
type Factory func(opts Options) Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a variant to the registry.
// Panics if a variant with the same ID is already registered.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	if info.Seats < 1 {
		info.Seats = 1
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered variants, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Info returns the metadata of a registered variant.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a variant by its ID.
func Create(id string, opts Options) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(opts), nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
