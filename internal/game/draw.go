package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/kabaddi/internal/sim"
)

var (
	colPitch        = color.RGBA{R: 34, G: 78, B: 42, A: 255}
	colDefenderZone = color.RGBA{R: 40, G: 60, B: 110, A: 90}
	colRaiderZone   = color.RGBA{R: 120, G: 50, B: 40, A: 90}
	colLine         = color.RGBA{R: 235, G: 235, B: 220, A: 255}
	colSafeLine     = color.RGBA{R: 235, G: 235, B: 220, A: 110}
	colRaider       = color.RGBA{R: 220, G: 70, B: 60, A: 255}
	colDefender     = color.RGBA{R: 70, G: 120, B: 220, A: 255}
	colTagged       = color.RGBA{R: 90, G: 90, B: 90, A: 160}
	colTextBright   = color.RGBA{R: 235, G: 240, B: 230, A: 255}
	colTextDim      = color.RGBA{R: 150, G: 165, B: 150, A: 255}
	colAccent       = color.RGBA{R: 250, G: 210, B: 80, A: 255}
)

// hudFace is the 7x13 bitmap face used for all text.
var hudFace = text.NewGoXFace(basicfont.Face7x13)

// drawText draws s with its top-left corner at (x,y), scaled by an integer factor.
func drawText(dst *ebiten.Image, s string, x, y, scale int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, hudFace, op)
}

// drawTextCentered draws s horizontally centred on cx.
func drawTextCentered(dst *ebiten.Image, s string, cx, y, scale int, c color.Color) {
	w, _ := text.Measure(s, hudFace, 0)
	drawText(dst, s, cx-int(w)*scale/2, y, scale, c)
}

func (g *Game) drawField(screen *ebiten.Image, snap sim.Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)
	f := snap.Field
	cw, ch := float32(g.cfg.Game.CanvasWidth), float32(g.cfg.Game.CanvasHeight)

	vector.FillRect(screen, ox, oy, cw, ch, colPitch, false)

	zone := func(r sim.Rect, c color.RGBA) {
		vector.FillRect(screen, ox+float32(r.X), oy+float32(r.Y), float32(r.W), float32(r.H), c, false)
	}
	zone(f.DefenderZone, colDefenderZone)
	zone(f.RaiderZone, colRaiderZone)

	b := f.BoundaryLines
	vector.StrokeRect(screen, ox+float32(b.Left), oy+float32(b.Top),
		float32(b.Right-b.Left), float32(b.Bottom-b.Top), 2.0, colLine, false)

	cy := oy + float32(f.CenterLine)
	vector.StrokeLine(screen, ox+float32(b.Left), cy, ox+float32(b.Right), cy, 3.0, colLine, false)

	// Dashed safe line.
	sy := oy + float32(f.SafeLine())
	for x := float32(b.Left); x < float32(b.Right); x += 16 {
		vector.StrokeLine(screen, ox+x, sy, ox+x+8, sy, 1.0, colSafeLine, false)
	}
}

func (g *Game) drawTrail(screen *ebiten.Image, snap sim.Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)
	n := len(snap.Trail)
	for i, p := range snap.Trail {
		a := uint8(20 + 120*(i+1)/max(n, 1))
		r := 2 + 4*float32(i+1)/float32(max(n, 1))
		vector.FillCircle(screen, ox+float32(p.X), oy+float32(p.Y), r,
			color.RGBA{R: colRaider.R, G: colRaider.G, B: colRaider.B, A: a}, true)
	}
}

func (g *Game) drawPlayers(screen *ebiten.Image, snap sim.Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)

	for _, d := range snap.Defenders {
		x, y := ox+float32(d.Position.X), oy+float32(d.Position.Y)
		r := float32(d.Size) / 2
		if !d.IsActive {
			vector.FillCircle(screen, x, y, r, colTagged, true)
			vector.StrokeLine(screen, x-r, y-r, x+r, y+r, 1.5, colTextDim, true)
			continue
		}
		vector.FillCircle(screen, x, y, r, colDefender, true)
		vector.StrokeCircle(screen, x, y, r+1, 1.0, colLine, true)
	}

	rd := snap.Raider
	x, y := ox+float32(rd.Position.X), oy+float32(rd.Position.Y)
	r := float32(rd.Size) / 2
	col := colRaider
	if !rd.IsActive {
		col.A = 140
	}
	vector.FillCircle(screen, x, y, r, col, true)
	vector.StrokeCircle(screen, x, y, r+1, 1.5, colLine, true)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap sim.Snapshot) {
	st := snap.State
	lines := []string{
		fmt.Sprintf("Raiders %d - %d Defenders", snap.Score.Raiders, snap.Score.Defenders),
		fmt.Sprintf("Game %s  Raid %04.1fs", sim.FormatClock(st.GameTimer), st.RaidTimer),
		fmt.Sprintf("%s  %s", phaseLabel(snap), g.difficulty),
	}
	if sim.IsAllOut(snap.Defenders) {
		lines = append(lines, "ALL OUT!")
	}
	if g.sound.Muted() {
		lines = append(lines, "muted")
	}

	const lineH = 16
	const padX, padY = 6, 5
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	bx, by := float32(g.offX+8), float32(g.offY+8)
	boxW := float32(maxLen*7 + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 200}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)

	for i, line := range lines {
		col := colTextBright
		if i > 0 {
			col = colTextDim
		}
		if line == "ALL OUT!" {
			col = colAccent
		}
		drawText(screen, line, int(bx)+padX, int(by)+padY+i*lineH, 1, col)
	}
}

// phaseLabel describes the raid for the HUD.
func phaseLabel(snap sim.Snapshot) string {
	switch snap.State.CurrentPhase {
	case sim.PhaseRaiding:
		if snap.HasCrossedLine {
			return "RAIDING - get home!"
		}
		return "RAIDING - cross the line"
	case sim.PhaseReturning:
		return "RETURNING"
	case sim.PhaseScored:
		return "SAFE!"
	case sim.PhaseTackled:
		return "TACKLED"
	default:
		if snap.State.IsGameOver {
			return "FULL TIME"
		}
		return "GET READY"
	}
}
