package config

import (
	_ "embed"
)

//go:embed defaults/airhockey.yaml
var defaultAirHockeyYAML []byte

// DefaultAirHockeyConfig returns the built-in table configuration.
// It mirrors defaults/airhockey.yaml and is used if the embedded file is unreadable.
func DefaultAirHockeyConfig() AirHockeyConfig {
	return AirHockeyConfig{
		Physics: PhysicsConfig{
			ServeSpeed:   0.35,
			MaxPuckSpeed: 1.6,
			Friction:     0.995,
			MalletSpeed:  0.9,
			HitBoost:     0.6,
			WallBounce:   0.9,
		},
		Rink: RinkConfig{
			GoalHeight:   7,
			MalletRadius: 1.6,
			ServeDelay:   90,
		},
		Match: MatchConfig{
			Mode:  "highscore",
			Value: 7,
		},
		CPU: CPUConfig{
			MinSkill: 0.55,
			MaxSkill: 0.9,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "goals",
				MaxAt: 10,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.4,
			},
		},
	}
}
