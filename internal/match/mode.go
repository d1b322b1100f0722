package match

import (
	"fmt"
	"strings"
)

// Mode is the rule set deciding when a match ends.
type Mode int

const (
	// HighScore ends when either side reaches the target goal count.
	HighScore Mode = iota
	// BestOfScore ends when either side holds a majority of a best-of-N series.
	BestOfScore
	// Time ends when the caller's clock reaches the configured minutes.
	Time
	// Endless never ends by rule.
	Endless
)

// Modes lists every mode in menu order.
var Modes = []Mode{HighScore, BestOfScore, Time, Endless}

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case HighScore:
		return "High Score"
	case BestOfScore:
		return "Best Of"
	case Time:
		return "Time"
	case Endless:
		return "Endless"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Key returns the config/CLI name of the mode, as accepted by ParseMode.
func (m Mode) Key() string {
	switch m {
	case HighScore:
		return "highscore"
	case BestOfScore:
		return "bestof"
	case Time:
		return "time"
	case Endless:
		return "endless"
	default:
		return ""
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= HighScore && m <= Endless
}

// InfoName is the label of the mode's settings value ("score", "duration").
// Endless has no value to describe and returns ErrInvalidUsage.
func (m Mode) InfoName() (string, error) {
	switch m {
	case HighScore:
		return "score", nil
	case BestOfScore:
		return "scores", nil
	case Time:
		return "duration", nil
	case Endless:
		return "", fmt.Errorf("%w: endless mode doesn't require info", ErrInvalidUsage)
	default:
		return "", fmt.Errorf("%w: mode %d", ErrUnimplemented, int(m))
	}
}

// InfoUnitName is the unit of the mode's settings value ("points", "minutes").
// Endless returns ErrInvalidUsage.
func (m Mode) InfoUnitName() (string, error) {
	switch m {
	case HighScore, BestOfScore:
		return "points", nil
	case Time:
		return "minutes", nil
	case Endless:
		return "", fmt.Errorf("%w: endless mode doesn't require info", ErrInvalidUsage)
	default:
		return "", fmt.Errorf("%w: mode %d", ErrUnimplemented, int(m))
	}
}

// ParseMode maps a config or CLI name to a Mode. Matching ignores case and
// accepts a few aliases ("high-score", "best-of", "timed").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "highscore", "high-score", "high_score", "score":
		return HighScore, nil
	case "bestof", "best-of", "best_of", "bestofscore":
		return BestOfScore, nil
	case "time", "timed", "duration":
		return Time, nil
	case "endless", "free":
		return Endless, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidUsage, s)
	}
}
