// Package config provides YAML-based table configuration loading and
// difficulty management for the air-hockey game.
package config

import "github.com/vovakirdan/tui-airhockey/internal/match"

// AirHockeyConfig contains all tunables of the rink simulation.
type AirHockeyConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Rink       RinkConfig       `yaml:"rink"`
	Match      MatchConfig      `yaml:"match"`
	CPU        CPUConfig        `yaml:"cpu"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines puck and mallet movement, in cells per tick.
type PhysicsConfig struct {
	ServeSpeed   float64 `yaml:"serve_speed"` // Puck speed after placement
	MaxPuckSpeed float64 `yaml:"max_puck_speed"`
	Friction     float64 `yaml:"friction"` // Velocity multiplier per tick, 1 = none
	MalletSpeed  float64 `yaml:"mallet_speed"`
	HitBoost     float64 `yaml:"hit_boost"`   // Fraction of mallet velocity passed to the puck
	WallBounce   float64 `yaml:"wall_bounce"` // Velocity kept after hitting a board
}

// RinkConfig defines table geometry and pacing.
type RinkConfig struct {
	GoalHeight   int     `yaml:"goal_height"`   // Opening in each end board, in rows
	MalletRadius float64 `yaml:"mallet_radius"` // Hit radius around a mallet
	ServeDelay   int     `yaml:"serve_delay"`   // Ticks between a goal and the next serve
}

// MatchConfig is the default match selection when none is given on the command line.
type MatchConfig struct {
	Mode  string `yaml:"mode"`  // highscore, bestof, time, endless
	Value int    `yaml:"value"` // Target score, best-of count or minutes
}

// Settings converts the default selection into validated match settings.
func (m MatchConfig) Settings() (match.Settings, error) {
	return match.ParseSettings(m.Mode, m.Value)
}

// CPUConfig bounds the skill of the computer-controlled mallet (0-1).
type CPUConfig struct {
	MinSkill float64 `yaml:"min_skill"`
	MaxSkill float64 `yaml:"max_skill"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases during a match.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "goals", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Total goals/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to puck speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
