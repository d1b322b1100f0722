package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-airhockey/internal/match"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAirHockeyConfig(), cfg)
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	data := []byte("match:\n  mode: time\n  value: 3\nrink:\n  goal_height: 5\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Rink.GoalHeight)
	assert.Equal(t, DefaultAirHockeyConfig().Physics, cfg.Physics, "unset sections keep defaults")

	settings, err := cfg.Match.Settings()
	require.NoError(t, err)
	assert.Equal(t, match.Time, settings.Mode())
	assert.Equal(t, uint32(3), settings.Value())
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("match: [unclosed"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("match:\n  mode: overtime\n"), 0o600))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, match.ErrInvalidUsage)
}

func TestLoadLocalConfigsDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.MkdirAll("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "airhockey.yaml"), []byte("cpu:\n  max_skill: 0.5\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.CPU.MaxSkill, 1e-9)
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultAirHockeyConfig()
	ApplyPreset(&cfg, DifficultyFixed)
	assert.False(t, cfg.Difficulty.Enabled)

	cfg = DefaultAirHockeyConfig()
	ApplyPreset(&cfg, DifficultyHard)
	assert.True(t, cfg.Difficulty.Enabled)
	assert.InDelta(t, 0.7, cfg.Difficulty.InitialLevel, 1e-9)
	assert.GreaterOrEqual(t, cfg.CPU.MinSkill, 0.75)

	cfg = DefaultAirHockeyConfig()
	ApplyPreset(&cfg, "")
	assert.Equal(t, DefaultAirHockeyConfig(), cfg)
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("normal")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)

	_, err = ParsePreset("insane")
	assert.Error(t, err)
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultAirHockeyConfig()
	dm := NewDifficultyManager(cfg.Difficulty)

	assert.InDelta(t, 0.0, dm.Level(0, 0), 1e-9)
	assert.InDelta(t, 0.5, dm.Level(5, 0), 1e-9)
	assert.InDelta(t, 1.0, dm.Level(50, 0), 1e-9, "level clamps at max")

	assert.InDelta(t, cfg.CPU.MinSkill, dm.Skill(cfg.CPU, 0, 0), 1e-9)
	assert.InDelta(t, cfg.CPU.MaxSkill, dm.Skill(cfg.CPU, 10, 0), 1e-9)
	assert.InDelta(t, 1.4, dm.Speed(1.0, 10, 0), 1e-9)

	cfg.Difficulty.Enabled = false
	cfg.Difficulty.InitialLevel = 0.3
	fixed := NewDifficultyManager(cfg.Difficulty)
	assert.False(t, fixed.IsEnabled())
	assert.InDelta(t, 0.3, fixed.Level(100, 100000), 1e-9)
}
