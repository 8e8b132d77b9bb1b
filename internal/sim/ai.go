package sim

import (
	"fmt"
	"math"
)

const (
	defenderSize = 15.0

	// PursuitRange is the distance at which a defender commits to an interception.
	PursuitRange = 100.0
	// arrivalDeadZone stops defenders oscillating around their target.
	arrivalDeadZone = 5.0
	// tackleReach is added to both radii for the tackle hit-test.
	tackleReach = 10.0

	// interceptJitterX/Y scale the interception error by (1 - aggressiveness).
	interceptJitterX = 50.0
	interceptJitterY = 30.0
	// chaseJitter is the full width of the error when chasing a deep raider.
	chaseJitter = 40.0

	// frameMs is one 60fps frame; speeds are expressed per frame.
	frameMs = 16.67
)

// formationLine is one rank of the 3-2-2 formation.
type formationLine struct {
	depth float64   // fraction of the zone height, measured from the centre line
	xs    []float64 // fractions of the zone width
}

var formation322 = []formationLine{
	{depth: 0.2, xs: []float64{0.2, 0.5, 0.8}}, // front
	{depth: 0.5, xs: []float64{0.3, 0.7}},      // mid
	{depth: 0.8, xs: []float64{0.4, 0.6}},      // back
}

// DefenderCount is the roster size of the 3-2-2 formation.
const DefenderCount = 7

// CreateDefenderFormation returns the home slot of each defender, front line first.
// The defender zone sits above the centre line, so depth grows toward zone.Y.
func CreateDefenderFormation(zone Rect) []Position {
	slots := make([]Position, 0, DefenderCount)
	for _, line := range formation322 {
		y := zone.Bottom() - zone.H*line.depth
		for _, fx := range line.xs {
			slots = append(slots, Position{X: zone.X + zone.W*fx, Y: y})
		}
	}
	return slots
}

// CreateAIDefenders spawns the roster on its formation slots.
func CreateAIDefenders(field GameField, diff DifficultyConfig) []AIDefender {
	slots := CreateDefenderFormation(field.DefenderZone)
	out := make([]AIDefender, len(slots))
	for i, pos := range slots {
		out[i] = AIDefender{
			Player: Player{
				ID:       fmt.Sprintf("defender_%d", i),
				Position: pos,
				Team:     TeamDefenders,
				IsActive: true,
				Speed:    diff.DefenderSpeed,
				Size:     defenderSize,
			},
			TargetPosition:    pos,
			ReactionTime:      diff.DefenderReactionTime,
			Aggressiveness:    diff.DefenderAggressiveness,
			FormationPosition: pos,
		}
	}
	return out
}

// selectTarget picks where a defender wants to be this tick.
//
//  1. raider within PursuitRange: intercept, error shrinking with aggressiveness,
//     kept inside the defender zone
//  2. raider deep in defender territory: chase with a fixed error
//  3. otherwise: hold the formation slot
func selectTarget(d AIDefender, raider Player, field GameField, diff DifficultyConfig, rng Rand) Position {
	if !raider.IsActive {
		return d.FormationPosition
	}
	if d.Position.DistanceTo(raider.Position) < PursuitRange {
		loose := 1 - diff.DefenderAggressiveness
		intercept := Position{
			X: raider.Position.X + (rng.Float64()-0.5)*interceptJitterX*loose,
			Y: raider.Position.Y + (rng.Float64()-0.5)*interceptJitterY*loose,
		}
		return field.DefenderZone.Clamp(intercept)
	}
	if field.InDefenderTerritory(raider.Position) {
		return Position{
			X: raider.Position.X + (rng.Float64()-0.5)*chaseJitter,
			Y: raider.Position.Y + (rng.Float64()-0.5)*chaseJitter,
		}
	}
	return d.FormationPosition
}

// UpdateDefenderAI retargets one defender and steps it toward the target.
// dtMs is the real elapsed time; the step is normalised to 60fps frames.
func UpdateDefenderAI(d AIDefender, raider Player, field GameField, diff DifficultyConfig, dtMs float64, rng Rand) AIDefender {
	d.TargetPosition = selectTarget(d, raider, field, diff, rng)

	dx := d.TargetPosition.X - d.Position.X
	dy := d.TargetPosition.Y - d.Position.Y
	dist := math.Hypot(dx, dy)
	if dist <= arrivalDeadZone {
		return d
	}
	step := diff.DefenderSpeed * dtMs / frameMs
	d.Position = field.BoundaryLines.Clamp(Position{
		X: d.Position.X + dx/dist*step,
		Y: d.Position.Y + dy/dist*step,
	})
	return d
}

// UpdateAllDefenders advances every active defender; tagged ones stand still.
func UpdateAllDefenders(defenders []AIDefender, raider Player, field GameField, diff DifficultyConfig, dtMs float64, rng Rand) {
	for i := range defenders {
		if !defenders[i].IsActive {
			continue
		}
		defenders[i] = UpdateDefenderAI(defenders[i], raider, field, diff, dtMs, rng)
	}
}

// CanTackleRaider is the contact test shared by tags and tackles.
func CanTackleRaider(d AIDefender, raider Player) bool {
	reach := d.Size + raider.Size + tackleReach
	return d.Position.DistanceTo(raider.Position) <= reach &&
		raider.IsActive && !raider.IsTagged
}

// Collision is the result of a raider/defender contact scan.
type Collision struct {
	Hit        bool
	DefenderID string
}

// CheckRaiderDefenderCollisions returns the first active defender, in roster
// order, in contact with the raider. At most one contact registers per call.
func CheckRaiderDefenderCollisions(raider Player, defenders []AIDefender) Collision {
	for _, d := range defenders {
		if d.IsActive && CanTackleRaider(d, raider) {
			return Collision{Hit: true, DefenderID: d.ID}
		}
	}
	return Collision{}
}
