package airhockey

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Visual characters for rendering
const (
	MalletChar = '◉'
	PuckChar   = '●'
	CenterChar = '┊'
	GoalChar   = '┃'
)

// Render draws the table to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	r := g.rink
	w := min(dst.Width(), r.width)
	h := min(dst.Height(), r.height)

	dst.DrawBox(core.NewRect(0, 1, w, h-1), core.ColorBoard)
	for y := int(r.goalTop); y <= int(r.goalBottom); y++ {
		dst.SetColor(0, y, GoalChar, core.ColorGoal)
		dst.SetColor(w-1, y, GoalChar, core.ColorGoal)
	}

	cx := int(math.Round(r.centerX))
	for y := 2; y < h-1; y++ {
		dst.SetColor(cx, y, CenterChar, core.ColorBoard)
	}

	g.drawMallet(dst, &g.left, core.ColorLeftSide)
	g.drawMallet(dst, &g.right, core.ColorRightSide)

	if g.serveTicks == 0 || (g.serveTicks/10)%2 == 0 { // Blink during serve
		dst.SetColor(cell(g.puck.pos.X), cell(g.puck.pos.Y), PuckChar, core.ColorPuck)
	}

	g.drawHUD(dst, w)

	switch {
	case g.outcome.Finished:
		g.drawCenteredMessage(dst, g.resultTitle(), g.resultSubtitle())
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.goalFlash > 0 && g.serveTicks > 0:
		g.drawCenteredMessage(dst, "GOAL!", g.sideName(g.lastScorer)+" scores")
	}
}

func (g *Game) drawMallet(dst *core.Screen, m *mallet, c core.Color) {
	dst.SetColor(cell(m.pos.X), cell(m.pos.Y), MalletChar, c)
}

func (g *Game) drawHUD(dst *core.Screen, w int) {
	st := g.State()
	dst.DrawTextColor(1, 0, g.sideName(match.LeftPlayer), core.ColorLeftSide)
	right := g.sideName(match.RightPlayer)
	dst.DrawTextColor(w-1-len(right), 0, right, core.ColorRightSide)

	score := fmt.Sprintf("%d - %d", st.LeftGoals, st.RightGoals)
	info := g.settings.Describe()
	if g.settings.Mode() == match.Time {
		secs := int(st.Remaining.Seconds())
		info = fmt.Sprintf("%d:%02d", secs/60, secs%60)
	}
	dst.DrawTextCentered(0, score+"  "+info, core.ColorWhite)
}

func (g *Game) sideName(p match.Player) string {
	switch {
	case p == match.LeftPlayer:
		return "P1"
	case g.cpu != nil:
		return "CPU"
	default:
		return "P2"
	}
}

func (g *Game) resultTitle() string {
	winner, ok := g.outcome.Result.Winner()
	switch {
	case !ok:
		return "TIE GAME"
	case g.cpu != nil && winner == match.LeftPlayer:
		return "YOU WIN!"
	case g.cpu != nil:
		return "CPU WINS!"
	default:
		return g.sideName(winner) + " WINS!"
	}
}

func (g *Game) resultSubtitle() string {
	st := g.State()
	return fmt.Sprintf("%d - %d  |  Press R to restart", st.LeftGoals, st.RightGoals)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, title, core.ColorYellow)
	dst.DrawTextCentered(box.Y+3, subtitle, core.ColorDefault)
}

func cell(v float64) int {
	return int(math.Round(v))
}
