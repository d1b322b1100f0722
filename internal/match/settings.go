package match

import (
	"fmt"
	"math"
	"time"
)

// maxMinutes is the longest Time mode match a time.Duration can hold.
const maxMinutes = math.MaxInt64 / int64(time.Minute)

// Settings is the immutable configuration of one match: a Mode and its value
// (target goals, best-of count, or minutes). Endless carries no value.
type Settings struct {
	mode  Mode
	value uint32
}

// NewSettings validates and builds match settings.
// Endless must be given a zero value.
func NewSettings(mode Mode, value uint32) (Settings, error) {
	if !mode.Valid() {
		return Settings{}, fmt.Errorf("%w: unknown mode %d", ErrInvalidUsage, int(mode))
	}
	if mode == Endless && value != 0 {
		return Settings{}, fmt.Errorf("%w: endless mode takes no value, got %d", ErrInvalidUsage, value)
	}
	return Settings{mode: mode, value: value}, nil
}

// EndlessSettings returns settings for a match that never ends by rule.
func EndlessSettings() Settings {
	return Settings{mode: Endless}
}

// ParseSettings builds settings from a mode name and a signed value, the
// shape in which flags and YAML deliver them.
func ParseSettings(modeName string, value int) (Settings, error) {
	mode, err := ParseMode(modeName)
	if err != nil {
		return Settings{}, err
	}
	if value < 0 {
		return Settings{}, fmt.Errorf("%w: negative value %d", ErrInvalidUsage, value)
	}
	if uint64(value) > uint64(^uint32(0)) {
		return Settings{}, fmt.Errorf("%w: value %d out of range", ErrInvalidUsage, value)
	}
	if mode == Endless {
		// Endless ignores whatever value the config carried.
		return EndlessSettings(), nil
	}
	return NewSettings(mode, uint32(value))
}

// Mode returns the match mode.
func (s Settings) Mode() Mode {
	return s.mode
}

// Value returns the mode's parameter.
func (s Settings) Value() uint32 {
	return s.value
}

// Duration returns the match length for Time mode and zero otherwise.
// Lengths past the largest time.Duration saturate.
func (s Settings) Duration() time.Duration {
	if s.mode != Time {
		return 0
	}
	if int64(s.value) > maxMinutes {
		return math.MaxInt64
	}
	return time.Duration(s.value) * time.Minute
}

// Describe renders the win condition for display, e.g. "High Score - score: 5 points".
func (s Settings) Describe() string {
	name, err := s.mode.InfoName()
	if err != nil {
		return s.mode.String()
	}
	unit, err := s.mode.InfoUnitName()
	if err != nil {
		return s.mode.String()
	}
	return fmt.Sprintf("%s - %s: %d %s", s.mode, name, s.value, unit)
}
