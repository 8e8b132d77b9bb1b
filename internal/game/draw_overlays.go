package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/kabaddi/internal/sim"
)

// defenderIntent is a human-readable label for what a defender is doing.
func defenderIntent(d sim.AIDefender, raider sim.Player, f sim.GameField) string {
	switch {
	case !d.IsActive:
		return "out"
	case !raider.IsActive:
		return "hold"
	case d.Position.DistanceTo(raider.Position) < sim.PursuitRange:
		return "intercept"
	case f.InDefenderTerritory(raider.Position):
		return "chase"
	}
	return "hold"
}

// drawAIOverlay shows each defender's formation slot, pursuit radius and a
// line to its current target. Toggled with Tab.
func (g *Game) drawAIOverlay(screen *ebiten.Image, snap sim.Snapshot) {
	ox, oy := float32(g.offX), float32(g.offY)

	for _, d := range snap.Defenders {
		fx, fy := ox+float32(d.FormationPosition.X), oy+float32(d.FormationPosition.Y)
		vector.StrokeRect(screen, fx-3, fy-3, 6, 6, 1.0, color.RGBA{R: 90, G: 120, B: 200, A: 90}, false)
		if !d.IsActive {
			continue
		}

		x, y := ox+float32(d.Position.X), oy+float32(d.Position.Y)
		intent := defenderIntent(d, snap.Raider, snap.Field)

		ring := color.RGBA{R: 40, G: 60, B: 160, A: 30}
		if intent == "intercept" {
			ring = color.RGBA{R: 220, G: 80, B: 60, A: 70}
		}
		vector.StrokeCircle(screen, x, y, float32(sim.PursuitRange), 1.0, ring, true)

		// Skip very short lines.
		dx := d.TargetPosition.X - d.Position.X
		dy := d.TargetPosition.Y - d.Position.Y
		if math.Hypot(dx, dy) >= 20 {
			tx, ty := ox+float32(d.TargetPosition.X), oy+float32(d.TargetPosition.Y)
			vector.StrokeLine(screen, x, y, tx, ty, 1.0, color.RGBA{R: 60, G: 100, B: 220, A: 80}, true)
			vector.FillCircle(screen, tx, ty, 2, color.RGBA{R: 60, G: 100, B: 220, A: 140}, true)
		}

		drawText(screen, intent, int(x)+10, int(y)-16, 1, colTextDim)
	}

	r := snap.Raider
	drawText(screen, fmt.Sprintf("raider (%.0f,%.0f) crossed=%v returning=%v", r.Position.X, r.Position.Y, snap.HasCrossedLine, snap.IsReturning),
		g.offX+8, g.offY+int(g.cfg.Game.CanvasHeight)-20, 1, colTextDim)
}
