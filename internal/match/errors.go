package match

import "errors"

var (
	// ErrInvalidUsage reports a caller contract violation, such as asking
	// Endless mode for its info label or passing an unknown Player.
	ErrInvalidUsage = errors.New("match: invalid usage")

	// ErrUnimplemented reports a mode outside the closed enumeration.
	ErrUnimplemented = errors.New("match: not implemented")
)
