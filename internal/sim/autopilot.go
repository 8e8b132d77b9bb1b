package sim

import "math"

const (
	// axisThreshold is the minimum offset before the autopilot presses a key on that axis.
	axisThreshold = 4.0
	// evadeRange is how close a defender may get before a deep raider turns for home.
	evadeRange = 70.0
	// bailSeconds is the raid time left at which the autopilot always turns back.
	bailSeconds = 8.0
)

// Autopilot is a scripted raider used by the headless harness: it picks an
// attack lane and depth per raid, runs in, and turns for home when it
// reaches the depth, a defender closes in, or the raid clock runs low.
type Autopilot struct {
	rng Rand

	laneX  float64
	depthY float64
	turned bool
	armed  bool // lane chosen for the current raid
}

// NewAutopilot creates an autopilot drawing its choices from rng.
func NewAutopilot(rng Rand) *Autopilot {
	return &Autopilot{rng: rng}
}

// Controls returns the input for this frame.
func (a *Autopilot) Controls(s Snapshot) Controls {
	if !s.State.IsPlaying || !s.State.CurrentPhase.live() || !s.Raider.IsActive {
		a.armed = false
		return Controls{}
	}
	if !a.armed {
		a.plan(s.Field)
	}

	r := s.Raider.Position
	if !a.turned {
		if r.Y <= a.depthY || s.State.RaidTimer < bailSeconds {
			a.turned = true
		} else if s.Field.InDefenderTerritory(r) {
			if _, d := nearestActive(r, s.Defenders); d < evadeRange {
				a.turned = true
			}
		}
	}

	target := Position{X: a.laneX, Y: a.depthY}
	if a.turned {
		target = Position{X: r.X, Y: s.Field.SafeLine() + 20}
		// Slide away from the closest defender while running home.
		if near, d := nearestActive(r, s.Defenders); d < evadeRange*1.5 {
			if near.X < r.X {
				target.X = r.X + 60
			} else {
				target.X = r.X - 60
			}
		}
	}
	return steer(r, target)
}

// plan picks a lane and depth for a new raid.
func (a *Autopilot) plan(f GameField) {
	a.armed = true
	a.turned = false
	zone := f.DefenderZone
	a.laneX = zone.X + zone.W*(0.15+0.7*a.rng.Float64())
	a.depthY = f.CenterLine - zone.H*(0.15+0.45*a.rng.Float64())
}

func nearestActive(p Position, defenders []AIDefender) (Position, float64) {
	best := math.MaxFloat64
	var at Position
	for _, d := range defenders {
		if !d.IsActive {
			continue
		}
		if dist := p.DistanceTo(d.Position); dist < best {
			best = dist
			at = d.Position
		}
	}
	return at, best
}

func steer(from, to Position) Controls {
	dx := to.X - from.X
	dy := to.Y - from.Y
	return Controls{
		Up:    dy < -axisThreshold,
		Down:  dy > axisThreshold,
		Left:  dx < -axisThreshold,
		Right: dx > axisThreshold,
	}
}
