package match

import "fmt"

// Player identifies one side of the table.
type Player int

const (
	LeftPlayer Player = iota
	RightPlayer
)

// Players lists both sides in table order.
var Players = [2]Player{LeftPlayer, RightPlayer}

// String returns a human-readable side name.
func (p Player) String() string {
	switch p {
	case LeftPlayer:
		return "Left"
	case RightPlayer:
		return "Right"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// Valid reports whether p is one of the two sides.
func (p Player) Valid() bool {
	return p == LeftPlayer || p == RightPlayer
}

// Opponent returns the other side. It panics on an invalid Player.
func (p Player) Opponent() Player {
	switch p {
	case LeftPlayer:
		return RightPlayer
	case RightPlayer:
		return LeftPlayer
	default:
		panic(fmt.Sprintf("match: opponent of invalid player %d", int(p)))
	}
}

// Result is the comparison of the two goal counts.
type Result int

const (
	Tie Result = iota
	LeftPlayerWin
	RightPlayerWin
)

// String returns a human-readable name for the result.
func (r Result) String() string {
	switch r {
	case Tie:
		return "Tie"
	case LeftPlayerWin:
		return "Left player wins"
	case RightPlayerWin:
		return "Right player wins"
	default:
		return "Unknown"
	}
}

// Winner returns the winning side, or false for a tie.
func (r Result) Winner() (Player, bool) {
	switch r {
	case LeftPlayerWin:
		return LeftPlayer, true
	case RightPlayerWin:
		return RightPlayer, true
	default:
		return LeftPlayer, false
	}
}

// WinFor returns the Result in which p wins. It panics on an invalid Player.
func WinFor(p Player) Result {
	switch p {
	case LeftPlayer:
		return LeftPlayerWin
	case RightPlayer:
		return RightPlayerWin
	default:
		panic(fmt.Sprintf("match: win for invalid player %d", int(p)))
	}
}
