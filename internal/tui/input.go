package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/kabaddi/internal/sim"
)

// inputDecayMs is how long a direction stays held after its last key
// event. Terminals send key repeats but never key releases.
const inputDecayMs = 150

// heldInput turns discrete key presses into held controls that decay.
type heldInput struct {
	controls sim.Controls
	at       float64 // ms timestamp of the last press
}

// press records a direction key at time now. Pressing a direction clears
// the opposite one on the same axis.
func (h *heldInput) press(k tcell.Key, r rune, now float64) bool {
	c := h.Current(now)
	switch {
	case k == tcell.KeyUp || r == 'w':
		c.Up, c.Down = true, false
	case k == tcell.KeyDown || r == 's':
		c.Down, c.Up = true, false
	case k == tcell.KeyLeft || r == 'a':
		c.Left, c.Right = true, false
	case k == tcell.KeyRight || r == 'd':
		c.Right, c.Left = true, false
	default:
		return false
	}
	h.controls = c
	h.at = now
	return true
}

// Current returns the held controls, or none once the decay has elapsed.
func (h *heldInput) Current(now float64) sim.Controls {
	if now-h.at > inputDecayMs {
		return sim.Controls{}
	}
	return h.controls
}

func (h *heldInput) clear() {
	h.controls = sim.Controls{}
}
