package match

import "fmt"

// Outcome is the verdict of a rules evaluation.
// When Finished is false, Result is only the live comparison of the counts.
type Outcome struct {
	Finished bool
	Result   Result
}

// Rules decides match completion for one Settings value.
// Evaluation is pure: the same settings and counts always give the same Outcome.
type Rules struct {
	settings Settings
}

// NewRules returns the rules for the given settings.
func NewRules(settings Settings) Rules {
	return Rules{settings: settings}
}

// Settings returns the settings the rules were built with.
func (r Rules) Settings() Settings {
	return r.settings
}

// Threshold is the goal count that wins a HighScore or BestOfScore match.
// For BestOfScore it is the majority of a best-of-value series, value/2+1.
// Other modes have no goal threshold and report false.
func (r Rules) Threshold() (uint32, bool) {
	switch r.settings.mode {
	case HighScore:
		return r.settings.value, true
	case BestOfScore:
		return majority(r.settings.value), true
	default:
		return 0, false
	}
}

// Evaluate is asked after every goal. It reports whether the goal count
// rules end the match and the final Result if so.
// Time and Endless never finish here: Time ends through TimeUp.
func (r Rules) Evaluate(t Tally) (Outcome, error) {
	live := Compare(t)

	switch r.settings.mode {
	case HighScore:
		if r.settings.value == 0 {
			// Nobody can reach a zero target first.
			return Outcome{Finished: true, Result: Tie}, nil
		}
		return raceTo(t, r.settings.value, live), nil
	case BestOfScore:
		return raceTo(t, majority(r.settings.value), live), nil
	case Time, Endless:
		return Outcome{Result: live}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: mode %d", ErrUnimplemented, int(r.settings.mode))
	}
}

// TimeUp resolves a Time match when the caller's clock has run out.
// The live comparison becomes final, ties included.
func (r Rules) TimeUp(t Tally) (Outcome, error) {
	switch r.settings.mode {
	case Time:
		return Outcome{Finished: true, Result: Compare(t)}, nil
	case HighScore, BestOfScore, Endless:
		return Outcome{}, fmt.Errorf("%w: %s mode has no time limit", ErrInvalidUsage, r.settings.mode)
	default:
		return Outcome{}, fmt.Errorf("%w: mode %d", ErrUnimplemented, int(r.settings.mode))
	}
}

// Finish resolves a match the caller is ending for its own reasons, such as
// a player quitting an Endless match. The live comparison is returned as final.
func (r Rules) Finish(t Tally) Outcome {
	return Outcome{Finished: true, Result: Compare(t)}
}

func raceTo(t Tally, target uint32, live Result) Outcome {
	switch {
	case t.LeftGoals() >= target:
		return Outcome{Finished: true, Result: LeftPlayerWin}
	case t.RightGoals() >= target:
		return Outcome{Finished: true, Result: RightPlayerWin}
	default:
		return Outcome{Result: live}
	}
}

func majority(n uint32) uint32 {
	return n/2 + 1
}
