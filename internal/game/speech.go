package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/kabaddi/internal/sim"
)

// calloutLifetime is how many frames a call-out stays visible (~1.5 seconds).
const calloutLifetime = 90

// calloutRise is how far a call-out drifts up over its lifetime, in pixels.
const calloutRise = 30

// Callout is a short floating label above the player involved in an event.
type Callout struct {
	text string
	at   sim.Position
	col  color.RGBA
	age  int
}

// calloutFor picks the label for an event, or nil when the event has none.
func calloutFor(ev sim.GameEvent, snap sim.Snapshot) *Callout {
	raider := snap.Raider.Position
	switch ev.Type {
	case sim.EventLineCrossed:
		return &Callout{text: "KABADDI!", at: raider, col: colAccent}
	case sim.EventDefenderTagged:
		for _, d := range snap.Defenders {
			if d.ID == ev.PlayerID {
				return &Callout{text: "TAG! +1", at: d.Position, col: colRaider}
			}
		}
		return &Callout{text: "TAG! +1", at: raider, col: colRaider}
	case sim.EventRaiderSafe:
		return &Callout{text: "SAFE! +1", at: raider, col: colRaider}
	case sim.EventRaiderCaught:
		return &Callout{text: "CAUGHT!", at: raider, col: colDefender}
	case sim.EventRaidTimeout:
		return &Callout{text: "TIME! +1", at: raider, col: colDefender}
	}
	return nil
}

// updateCallouts ages call-outs and drops expired ones.
func (g *Game) updateCallouts() {
	alive := g.callouts[:0]
	for _, c := range g.callouts {
		c.age++
		if c.age < calloutLifetime {
			alive = append(alive, c)
		}
	}
	g.callouts = alive
}

func (g *Game) drawCallouts(screen *ebiten.Image) {
	ox, oy := float32(g.offX), float32(g.offY)
	for _, c := range g.callouts {
		frac := float32(c.age) / calloutLifetime
		x := ox + float32(c.at.X)
		y := oy + float32(c.at.Y) - 24 - calloutRise*frac

		// Fade out over the last third.
		alpha := uint8(220)
		if frac > 0.66 {
			alpha = uint8(220 * (1 - frac) / 0.34)
		}
		w := float32(len(c.text)*7 + 8)
		vector.FillRect(screen, x-w/2, y-2, w, 17, color.RGBA{R: 0, G: 0, B: 0, A: alpha / 2}, false)
		col := c.col
		col.A = alpha
		drawTextCentered(screen, c.text, int(x), int(y), 1, col)
	}
}
