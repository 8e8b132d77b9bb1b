package sim

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// RaiderID is the ID of the single human-controlled raider.
	RaiderID = "player_raider"

	raiderSize = 20.0

	// diagonalScale keeps diagonal movement at roughly unit speed.
	diagonalScale = 0.707

	defaultRaidEndDelay   = 2 * time.Second
	defaultRaidStartDelay = 2 * time.Second
)

// Engine owns all mutable match state and advances it once per Update call.
//
// The engine is single-threaded by contract: Update and every mutator must be
// called from the same goroutine, and never concurrently. Getters return
// copies, so callers may hold on to what they read.
type Engine struct {
	cfg   GameConfig
	diff  DifficultyConfig
	field GameField

	state     GameState
	score     Score
	raider    Player
	defenders []AIDefender
	events    []GameEvent
	controls  Controls
	trail     Trail

	hasCrossedLine bool
	isReturning    bool

	// clock is simulated match time in ms: the sum of every applied delta.
	clock      float64
	lastUpdate float64
	hasLast    bool // false until the first tick after start, unpause or reset

	sched          scheduler
	raidEndDelay   float64 // ms
	raidStartDelay float64 // ms
	disposed       bool

	rng Rand
	log *zap.Logger
}

// Option customises an Engine at construction.
type Option func(*Engine)

// WithLogger routes engine events to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRand sets the random source for defender targeting.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds a private random source for defender targeting.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay jitter
	}
}

// WithResetDelays overrides the two presentation pauses between raids.
func WithResetDelays(raidEnd, raidStart time.Duration) Option {
	return func(e *Engine) {
		e.raidEndDelay = float64(raidEnd) / float64(time.Millisecond)
		e.raidStartDelay = float64(raidStart) / float64(time.Millisecond)
	}
}

// NewEngine validates the configuration and builds a match ready to start.
func NewEngine(cfg GameConfig, diff DifficultyConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "game config")
	}
	if err := diff.Validate(); err != nil {
		return nil, errors.Wrap(err, "difficulty")
	}
	e := &Engine{
		cfg:            cfg,
		diff:           diff,
		field:          CreateGameField(cfg),
		raidEndDelay:   float64(defaultRaidEndDelay / time.Millisecond),
		raidStartDelay: float64(defaultRaidStartDelay / time.Millisecond),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- gameplay jitter
		log:            zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.raidEndDelay < 0 || e.raidStartDelay < 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "reset delays must not be negative")
	}
	e.reset()
	return e, nil
}

// reset puts every piece of match state back to its pre-start value.
func (e *Engine) reset() {
	e.sched.CancelAll()
	e.state = GameState{
		CurrentPhase:  PhaseWaiting,
		RaidTimer:     e.cfg.RaidDuration,
		GameTimer:     e.cfg.GameDuration,
		CurrentRaider: RaiderID,
	}
	e.score = Score{}
	e.events = nil
	e.controls = Controls{}
	e.trail.Clear()
	e.hasCrossedLine = false
	e.isReturning = false
	e.clock = 0
	e.hasLast = false
	e.raider = Player{
		ID:       RaiderID,
		Position: RaiderSpawn(e.field, e.cfg),
		Team:     TeamRaiders,
		IsActive: true,
		Speed:    e.cfg.PlayerSpeed,
		Size:     raiderSize,
	}
	e.defenders = CreateAIDefenders(e.field, e.diff)
}

// StartGame begins the first raid. It is a no-op while playing or after game over.
func (e *Engine) StartGame() {
	if e.disposed || e.state.IsPlaying || e.state.IsGameOver {
		return
	}
	e.state.IsPlaying = true
	e.hasLast = false
	e.raider.IsActive = true
	e.setPhase(PhaseRaiding)
	e.addEvent(EventRaidStart, RaiderID, 0)
}

// TogglePause pauses or resumes the simulation. Time spent paused is not
// simulated: the first tick after resuming has a zero delta.
func (e *Engine) TogglePause() {
	e.state.IsPaused = !e.state.IsPaused
	e.hasLast = false
	e.log.Debug("pause toggled", zap.Bool("paused", e.state.IsPaused))
}

// ResetGame discards the match, including any pending raid reset, and
// returns to the pre-start state.
func (e *Engine) ResetGame() {
	e.reset()
	e.log.Info("game reset")
}

// Dispose cancels pending work and turns every later Update into a no-op.
func (e *Engine) Dispose() {
	e.sched.CancelAll()
	e.disposed = true
}

// UpdateControls replaces the buffered input sample.
func (e *Engine) UpdateControls(c Controls) {
	e.controls = c
}

// Update advances the simulation to timestampMs, a monotonic clock in ms.
func (e *Engine) Update(timestampMs float64) {
	if e.disposed || !e.state.IsPlaying || e.state.IsPaused || e.state.IsGameOver {
		return
	}

	dt := 0.0
	if e.hasLast {
		dt = timestampMs - e.lastUpdate
	}
	if dt < 0 {
		dt = 0
	}
	e.lastUpdate = timestampMs
	e.hasLast = true
	e.clock += dt

	e.sched.Advance(e.clock)

	if e.updateTimers(dt) {
		return
	}

	e.updateRaiderPosition(dt)
	UpdateAllDefenders(e.defenders, e.raider, e.field, e.diff, dt, e.rng)

	// Transitions run on the post-move position before contacts are resolved;
	// a raid finished here cannot also be caught on the same tick.
	if e.state.CurrentPhase.live() {
		e.checkRaidLogic()
	}
	if e.state.CurrentPhase.live() {
		e.checkCollisions()
	}

	if CheckGameOver(e.score, e.state.GameTimer, e.cfg) {
		e.endGame()
	}

	e.trail.Add(e.raider.Position)
}

// updateTimers runs both clocks and reports whether the game ended.
func (e *Engine) updateTimers(dt float64) bool {
	secs := dt / 1000

	if e.state.CurrentPhase.live() {
		e.state.RaidTimer -= secs
		if e.state.RaidTimer <= 0 {
			e.state.RaidTimer = 0
			e.handleRaidTimeout()
		}
	}

	e.state.GameTimer -= secs
	if e.state.GameTimer <= 0 {
		e.state.GameTimer = 0
		e.endGame()
		return true
	}
	return false
}

// updateRaiderPosition applies the buffered controls. Each axis is moved
// independently and a move that would leave the boundary (inset by the
// raider's size) is dropped, so the raider slides along walls.
func (e *Engine) updateRaiderPosition(dt float64) {
	if !e.raider.IsActive {
		return
	}

	dx, dy := 0.0, 0.0
	if e.controls.Up {
		dy--
	}
	if e.controls.Down {
		dy++
	}
	if e.controls.Left {
		dx--
	}
	if e.controls.Right {
		dx++
	}
	if dx != 0 && dy != 0 {
		dx *= diagonalScale
		dy *= diagonalScale
	}

	step := e.raider.Speed * dt / frameMs
	limits := e.field.BoundaryLines.Inset(e.raider.Size)

	if nx := e.raider.Position.X + dx*step; nx >= limits.Left && nx <= limits.Right {
		e.raider.Position.X = nx
	}
	if ny := e.raider.Position.Y + dy*step; ny >= limits.Top && ny <= limits.Bottom {
		e.raider.Position.Y = ny
	}
}

// checkRaidLogic advances the raid narrative from the raider's position.
func (e *Engine) checkRaidLogic() {
	y := e.raider.Position.Y

	if !e.hasCrossedLine && y < e.field.CenterLine {
		e.hasCrossedLine = true
		e.addEvent(EventLineCrossed, RaiderID, 0)
	}

	if e.hasCrossedLine && !e.isReturning && y > e.field.CenterLine {
		e.isReturning = true
		e.setPhase(PhaseReturning)
	}

	if e.isReturning && y > e.field.SafeLine() {
		e.handleSuccessfulRaid()
	}
}

// checkCollisions resolves at most one contact. In defender territory the
// raider is caught; anywhere else (including exactly on the line) the
// defender is tagged out.
func (e *Engine) checkCollisions() {
	c := CheckRaiderDefenderCollisions(e.raider, e.defenders)
	if !c.Hit {
		return
	}
	if e.field.InDefenderTerritory(e.raider.Position) {
		e.handleRaiderCaught(c.DefenderID)
		return
	}
	e.handleDefenderTagged(c.DefenderID)
}

func (e *Engine) handleSuccessfulRaid() {
	if !IsRaidSuccessful(e.hasCrossedLine, e.isReturning, e.raider.IsTagged) {
		return
	}
	e.setPhase(PhaseScored)
	e.addEvent(EventRaiderSafe, RaiderID, ScoringRules.SuccessfulRaid)
	e.endRaid()
}

func (e *Engine) handleRaiderCaught(defenderID string) {
	e.raider.IsTagged = true
	e.setPhase(PhaseTackled)
	e.addEvent(EventRaiderCaught, defenderID, ScoringRules.DefenderTackle)
	e.endRaid()
}

func (e *Engine) handleDefenderTagged(defenderID string) {
	for i := range e.defenders {
		d := &e.defenders[i]
		if d.ID != defenderID || d.IsTagged {
			continue
		}
		d.IsTagged = true
		d.IsActive = false
		e.addEvent(EventDefenderTagged, defenderID, ScoringRules.DefenderTagged)
		if IsAllOut(e.defenders) {
			e.log.Info("all out", zap.Int("defenders", len(e.defenders)))
		}
		return
	}
}

// handleRaidTimeout ends the raid in the defenders' favour. The raid_timeout
// event itself carries the defenders' point.
func (e *Engine) handleRaidTimeout() {
	e.setPhase(PhaseTackled)
	e.addEvent(EventRaidTimeout, RaiderID, ScoringRules.DefenderTackle)
	e.endRaid()
}

// endRaid freezes the raider and schedules the two-stage raid reset.
func (e *Engine) endRaid() {
	e.raider.IsActive = false
	e.sched.After(e.clock, e.raidEndDelay, e.prepareNextRaid)
}

// prepareNextRaid is reset stage one: back to spawn, flags cleared, defenders restored.
func (e *Engine) prepareNextRaid(due float64) {
	e.raider.Position = RaiderSpawn(e.field, e.cfg)
	e.raider.IsTagged = false
	e.hasCrossedLine = false
	e.isReturning = false
	e.state.RaidTimer = e.cfg.RaidDuration
	e.trail.Clear()
	for i := range e.defenders {
		if e.defenders[i].IsTagged {
			e.defenders[i].IsTagged = false
			e.defenders[i].IsActive = true
		}
	}
	e.setPhase(PhaseWaiting)
	e.sched.After(due, e.raidStartDelay, e.beginNextRaid)
}

// beginNextRaid is reset stage two: the raider is released and the raid starts.
func (e *Engine) beginNextRaid(float64) {
	if e.state.IsGameOver {
		return
	}
	e.raider.IsActive = true
	e.setPhase(PhaseRaiding)
	e.addEvent(EventRaidStart, RaiderID, 0)
}

// endGame is idempotent.
func (e *Engine) endGame() {
	if e.state.IsGameOver {
		return
	}
	e.sched.CancelAll()
	e.state.IsGameOver = true
	e.state.IsPlaying = false
	e.setPhase(PhaseWaiting)
	e.addEvent(EventGameOver, "", 0)
}

func (e *Engine) setPhase(p Phase) {
	if e.state.CurrentPhase == p {
		return
	}
	e.log.Debug("phase change",
		zap.Stringer("from", e.state.CurrentPhase),
		zap.Stringer("to", p),
		zap.Float64("clock_ms", e.clock))
	e.state.CurrentPhase = p
}

// addEvent appends to the log and applies the event's score immediately.
func (e *Engine) addEvent(t EventType, playerID string, points int) {
	ev := GameEvent{
		Type:      t,
		Timestamp: e.clock,
		PlayerID:  playerID,
		Points:    points,
		Message:   t.Message(),
	}
	e.events = append(e.events, ev)
	e.score = e.score.Add(ScoreDelta(ev))
	e.log.Info("game event",
		zap.Stringer("event", t),
		zap.String("player", playerID),
		zap.Int("points", points),
		zap.Int("raiders", e.score.Raiders),
		zap.Int("defenders", e.score.Defenders),
		zap.Stringer("phase", e.state.CurrentPhase))
}

// --- Read-only views. Every getter returns a copy. ---

// GameState returns the current match state.
func (e *Engine) GameState() GameState { return e.state }

// Score returns the cumulative score.
func (e *Engine) Score() Score { return e.score }

// Raider returns the raider.
func (e *Engine) Raider() Player { return e.raider }

// Defenders returns the roster in formation order.
func (e *Engine) Defenders() []AIDefender {
	out := make([]AIDefender, len(e.defenders))
	copy(out, e.defenders)
	return out
}

// Field returns the pitch geometry.
func (e *Engine) Field() GameField { return e.field }

// RaiderTrail returns up to TrailLength recent raider positions, oldest first.
func (e *Engine) RaiderTrail() []Position { return e.trail.Positions() }

// Events returns the full match log.
func (e *Engine) Events() []GameEvent {
	out := make([]GameEvent, len(e.events))
	copy(out, e.events)
	return out
}

// EventsSince returns events logged after the first n, for consumers that
// poll the log each frame. It returns nil once the consumer is caught up; an
// n larger than the log (after a reset) returns the whole log.
func (e *Engine) EventsSince(n int) []GameEvent {
	if n < 0 || n > len(e.events) {
		n = 0
	}
	if n == len(e.events) {
		return nil
	}
	out := make([]GameEvent, len(e.events)-n)
	copy(out, e.events[n:])
	return out
}

// EventCount returns the length of the match log.
func (e *Engine) EventCount() int { return len(e.events) }

// HasCrossedCenterLine reports whether the current raid has crossed into defender territory.
func (e *Engine) HasCrossedCenterLine() bool { return e.hasCrossedLine }

// IsRaiderReturning reports whether the raider has crossed back after a crossing.
func (e *Engine) IsRaiderReturning() bool { return e.isReturning }

// Config returns the match configuration.
func (e *Engine) Config() GameConfig { return e.cfg }

// Difficulty returns the defender profile.
func (e *Engine) Difficulty() DifficultyConfig { return e.diff }

// Snapshot is a consistent copy of everything a renderer needs for one frame.
type Snapshot struct {
	State          GameState
	Score          Score
	Raider         Player
	Defenders      []AIDefender
	Field          GameField
	Trail          []Position
	HasCrossedLine bool
	IsReturning    bool
	EventCount     int
}

// Snapshot copies the engine state as of the last completed Update.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:          e.state,
		Score:          e.score,
		Raider:         e.raider,
		Defenders:      e.Defenders(),
		Field:          e.field,
		Trail:          e.trail.Positions(),
		HasCrossedLine: e.hasCrossedLine,
		IsReturning:    e.isReturning,
		EventCount:     len(e.events),
	}
}
