// Package match is the rules core of an air-hockey match.
//
// It tracks goals for the two sides and decides, under the configured Mode,
// whether a match has ended and who won. It knows nothing about the rink,
// timing or rendering: callers feed confirmed goals into a Score and ask
// Rules for the Outcome after every goal (or, for Time mode, when their
// clock runs out).
//
// The package is synchronous and not safe for concurrent writers. Callers
// that receive goals from several goroutines must serialize them.
package match
