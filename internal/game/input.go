package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/kabaddi/internal/sim"
)

// keySource abstracts the keyboard so screens can be driven in tests.
type keySource interface {
	pressed(k ebiten.Key) bool
	justPressed(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) pressed(k ebiten.Key) bool     { return ebiten.IsKeyPressed(k) }
func (ebitenKeys) justPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }

// controlsFromKeys samples WASD and the arrow keys. Opposite keys held
// together cancel out in the engine.
func controlsFromKeys(k keySource) sim.Controls {
	return sim.Controls{
		Up:    k.pressed(ebiten.KeyW) || k.pressed(ebiten.KeyArrowUp),
		Down:  k.pressed(ebiten.KeyS) || k.pressed(ebiten.KeyArrowDown),
		Left:  k.pressed(ebiten.KeyA) || k.pressed(ebiten.KeyArrowLeft),
		Right: k.pressed(ebiten.KeyD) || k.pressed(ebiten.KeyArrowRight),
	}
}
