package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "airhockey.yaml"

// Load loads the table configuration.
// Search order: customPath -> ~/.airhockey/configs/airhockey.yaml ->
// ./configs/airhockey.yaml -> embedded default.
// Only an explicit customPath may fail; the other locations are skipped if
// missing or unparsable.
func Load(customPath string) (AirHockeyConfig, error) {
	if customPath != "" {
		cfg, err := loadFile(customPath)
		if err != nil {
			return AirHockeyConfig{}, err
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		if cfg, err := loadFile(path); err == nil {
			return cfg, nil
		}
	}

	cfg := DefaultAirHockeyConfig()
	if err := yaml.Unmarshal(defaultAirHockeyYAML, &cfg); err != nil {
		return DefaultAirHockeyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// loadFile parses one YAML file on top of the built-in defaults, so a
// partial file only overrides the keys it names.
func loadFile(path string) (AirHockeyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AirHockeyConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultAirHockeyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AirHockeyConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := cfg.Match.Settings(); err != nil {
		return AirHockeyConfig{}, fmt.Errorf("invalid match section in %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".airhockey", "configs", filename)
}

// ApplyPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched.
func ApplyPreset(cfg *AirHockeyConfig, preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.CPU.MaxSkill = min(cfg.CPU.MaxSkill, 0.7)
		cfg.Physics.ServeSpeed *= 0.8
	case DifficultyHard:
		cfg.CPU.MinSkill = max(cfg.CPU.MinSkill, 0.75)
		cfg.Physics.MaxPuckSpeed *= 1.2
	}
}

// ParsePreset validates a preset name from the command line.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}
