package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/kabaddi/internal/sim"
)

// statusRows are reserved below the pitch for the score and message lines.
const statusRows = 2

var (
	stylePitch    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(80, 140, 80))
	styleLine     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSafe     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 150, 140))
	styleRaider   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTrail    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 60, 50))
	styleDefender = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleTagged   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(100, 100, 100))
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// grid maps canvas coordinates onto terminal cells.
type grid struct {
	cols, rows int
	sx, sy     float64 // canvas units per cell
}

func newGrid(screenW, screenH int, cfg sim.GameConfig) grid {
	rows := max(screenH-statusRows, 1)
	cols := max(screenW, 1)
	return grid{
		cols: cols,
		rows: rows,
		sx:   cfg.CanvasWidth / float64(cols),
		sy:   cfg.CanvasHeight / float64(rows),
	}
}

// cell returns the cell for a canvas position, clamped to the grid.
func (g grid) cell(p sim.Position) (int, int) {
	x := int(p.X / g.sx)
	y := int(p.Y / g.sy)
	return min(max(x, 0), g.cols-1), min(max(y, 0), g.rows-1)
}

func (g grid) row(y float64) int {
	_, r := g.cell(sim.Position{Y: y})
	return r
}

// drawSnapshot renders one frame of the match.
func drawSnapshot(s tcell.Screen, snap sim.Snapshot, cfg sim.GameConfig, status string) {
	s.Clear()
	w, h := s.Size()
	gr := newGrid(w, h, cfg)
	f := snap.Field

	left, top := gr.cell(sim.Position{X: f.BoundaryLines.Left, Y: f.BoundaryLines.Top})
	right, bottom := gr.cell(sim.Position{X: f.BoundaryLines.Right, Y: f.BoundaryLines.Bottom})
	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			ch := ' '
			switch {
			case (x == left || x == right) && (y == top || y == bottom):
				ch = '+'
			case x == left || x == right:
				ch = '|'
			case y == top || y == bottom:
				ch = '-'
			}
			s.SetContent(x, y, ch, nil, stylePitch)
		}
	}

	center := gr.row(f.CenterLine)
	for x := left + 1; x < right; x++ {
		s.SetContent(x, center, '=', nil, styleLine)
	}
	safe := gr.row(f.SafeLine())
	for x := left + 1; x < right; x += 2 {
		s.SetContent(x, safe, '.', nil, styleSafe)
	}

	for _, p := range snap.Trail {
		x, y := gr.cell(p)
		s.SetContent(x, y, '·', nil, styleTrail)
	}
	for _, d := range snap.Defenders {
		x, y := gr.cell(d.Position)
		if d.IsActive {
			s.SetContent(x, y, 'D', nil, styleDefender)
		} else {
			s.SetContent(x, y, 'x', nil, styleTagged)
		}
	}
	rx, ry := gr.cell(snap.Raider.Position)
	s.SetContent(rx, ry, '@', nil, styleRaider)

	st := snap.State
	score := fmt.Sprintf(" Raiders %d - %d Defenders  Game %s  Raid %04.1fs  %s",
		snap.Score.Raiders, snap.Score.Defenders, sim.FormatClock(st.GameTimer), st.RaidTimer, phaseText(snap))
	putString(s, 0, gr.rows, score, styleStatus)
	putString(s, 0, gr.rows+1, " "+status, tcell.StyleDefault)
	s.Show()
}

func phaseText(snap sim.Snapshot) string {
	switch {
	case snap.State.IsGameOver:
		return "FULL TIME"
	case snap.State.IsPaused:
		return "PAUSED"
	case !snap.State.IsPlaying:
		return "READY"
	}
	return snap.State.CurrentPhase.String()
}

func putString(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
