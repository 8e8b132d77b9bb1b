package sim

import "math"

// Position is a point in field coordinates (pixels, y grows downward).
type Position struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Team distinguishes the human raider from the AI defenders.
type Team int

const (
	TeamRaiders Team = iota
	TeamDefenders
)

func (t Team) String() string {
	switch t {
	case TeamRaiders:
		return "raiders"
	case TeamDefenders:
		return "defenders"
	default:
		return "unknown"
	}
}

// Player is one body on the field.
type Player struct {
	ID       string
	Position Position
	Team     Team
	IsActive bool
	IsTagged bool
	Speed    float64 // pixels per 60fps-equivalent frame
	Size     float64 // collision radius
}

// AIDefender is a defender plus its behaviour parameters.
type AIDefender struct {
	Player
	TargetPosition    Position
	ReactionTime      float64 // ms
	Aggressiveness    float64 // 0-1
	FormationPosition Position
}

// Phase is the raid narrative state.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseRaiding
	PhaseReturning
	PhaseScored
	PhaseTackled
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseRaiding:
		return "raiding"
	case PhaseReturning:
		return "returning"
	case PhaseScored:
		return "scored"
	case PhaseTackled:
		return "tackled"
	default:
		return "unknown"
	}
}

// live reports whether raid logic (timer, transitions, collisions) runs in this phase.
func (p Phase) live() bool {
	return p == PhaseRaiding || p == PhaseReturning
}

// Score is the cumulative match score.
type Score struct {
	Raiders   int
	Defenders int
}

// Add returns the sum of two scores.
func (s Score) Add(o Score) Score {
	return Score{Raiders: s.Raiders + o.Raiders, Defenders: s.Defenders + o.Defenders}
}

// GameState is the externally visible match state.
type GameState struct {
	IsPlaying     bool
	IsPaused      bool
	IsGameOver    bool
	CurrentPhase  Phase
	RaidTimer     float64 // seconds
	GameTimer     float64 // seconds
	CurrentRaider string
}

// Controls is one directional input sample.
type Controls struct {
	Up, Down, Left, Right bool
}

// Rand is the random source used by defender targeting.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}
