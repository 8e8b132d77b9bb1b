package sim

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

// driver feeds an engine 60fps timestamps.
type driver struct {
	t   *testing.T
	e   *Engine
	now float64
}

func newDriver(t *testing.T, mutate func(*GameConfig), opts ...Option) *driver {
	t.Helper()
	cfg := DefaultGameConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	opts = append([]Option{WithRand(constRand(0.5))}, opts...)
	e, err := NewEngine(cfg, DifficultyMedium.Profile(), opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return &driver{t: t, e: e}
}

func (d *driver) tick(n int) {
	for i := 0; i < n; i++ {
		d.e.Update(d.now)
		d.now += frameMs
	}
}

// advance runs enough frames to cover ms of simulated time.
func (d *driver) advance(ms float64) {
	d.tick(int(math.Ceil(ms/frameMs)) + 1)
}

// until ticks until pred holds, failing the test after max frames.
func (d *driver) until(pred func() bool, max int, what string) {
	d.t.Helper()
	for i := 0; i < max; i++ {
		d.tick(1)
		if pred() {
			return
		}
	}
	d.t.Fatalf("%s did not happen within %d frames (raider at %+v, phase %s)",
		what, max, d.e.raider.Position, d.e.state.CurrentPhase)
}

func (d *driver) benchDefenders() {
	for i := range d.e.defenders {
		d.e.defenders[i].IsActive = false
	}
}

func countEvents(events []GameEvent, t EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"zero width", func(c *GameConfig) { c.CanvasWidth = 0 }},
		{"negative height", func(c *GameConfig) { c.CanvasHeight = -600 }},
		{"zero raid duration", func(c *GameConfig) { c.RaidDuration = 0 }},
		{"zero game duration", func(c *GameConfig) { c.GameDuration = 0 }},
		{"zero player speed", func(c *GameConfig) { c.PlayerSpeed = 0 }},
		{"NaN defender speed", func(c *GameConfig) { c.DefenderSpeed = math.NaN() }},
		{"zero max score", func(c *GameConfig) { c.MaxScore = 0 }},
		{"pitch taller than canvas", func(c *GameConfig) { c.PitchHeight = 700 }},
		{"pitch as tall as canvas", func(c *GameConfig) { c.PitchHeight = c.CanvasHeight }},
		{"pitch too short for the spawn", func(c *GameConfig) { c.PitchHeight = 40 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGameConfig()
			tc.mutate(&cfg)
			_, err := NewEngine(cfg, DifficultyMedium.Profile())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error should wrap ErrInvalidConfig: %v", err)
			}
		})
	}
}

func TestNewEngine_RejectsInvalidDifficulty(t *testing.T) {
	bad := DifficultyHard.Profile()
	bad.DefenderSpeed = 0
	if _, err := NewEngine(DefaultGameConfig(), bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("zero defender speed should be rejected, got %v", err)
	}
	bad = DifficultyHard.Profile()
	bad.DefenderAggressiveness = 1.5
	if _, err := NewEngine(DefaultGameConfig(), bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("aggressiveness > 1 should be rejected, got %v", err)
	}
	if _, err := NewEngine(DefaultGameConfig(), DifficultyEasy.Profile(), WithResetDelays(-time.Second, 0)); err == nil {
		t.Fatal("negative reset delay should be rejected")
	}
}

func TestEngine_InitialState(t *testing.T) {
	d := newDriver(t, nil)
	st := d.e.GameState()
	if st.IsPlaying || st.IsPaused || st.IsGameOver || st.CurrentPhase != PhaseWaiting {
		t.Fatalf("unexpected initial state: %+v", st)
	}
	if st.RaidTimer != 30 || st.GameTimer != 600 || st.CurrentRaider != RaiderID {
		t.Fatalf("unexpected initial timers: %+v", st)
	}
	r := d.e.Raider()
	if r.Position != (Position{X: 400, Y: 550}) || r.Size != 20 || r.Speed != 3 || !r.IsActive {
		t.Fatalf("unexpected raider: %+v", r)
	}
	if len(d.e.Defenders()) != DefenderCount {
		t.Fatalf("want %d defenders", DefenderCount)
	}
}

func TestEngine_UpdateIsNoOpBeforeStart(t *testing.T) {
	d := newDriver(t, nil)
	d.e.UpdateControls(Controls{Up: true})
	d.tick(60)
	if d.e.Raider().Position != RaiderSpawn(d.e.Field(), d.e.Config()) {
		t.Fatal("raider moved before the game started")
	}
	if d.e.GameState().GameTimer != 600 || len(d.e.Events()) != 0 {
		t.Fatal("timers or events changed before the game started")
	}
}

func TestEngine_StartGameIsIdempotent(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.StartGame()
	if n := countEvents(d.e.Events(), EventRaidStart); n != 1 {
		t.Fatalf("want 1 raid_start, got %d", n)
	}
	if d.e.GameState().CurrentPhase != PhaseRaiding {
		t.Fatal("StartGame should enter raiding")
	}
}

func TestEngine_FirstTickHasZeroDelta(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.Update(123456)
	if d.e.GameState().GameTimer != 600 {
		t.Fatalf("first tick should not advance timers, game timer %.3f", d.e.GameState().GameTimer)
	}
	d.e.Update(123456 + 1000)
	if got := d.e.GameState().GameTimer; math.Abs(got-599) > 1e-9 {
		t.Fatalf("one second should elapse, game timer %.3f", got)
	}
}

func TestEngine_CrossingLogsOnce(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.UpdateControls(Controls{Up: true})

	d.until(func() bool { return d.e.Raider().Position.Y < 300 }, 200, "crossing")
	if !d.e.HasCrossedCenterLine() {
		t.Fatal("hasCrossedLine should be set once the raider is past the centre line")
	}
	d.tick(30)
	if n := countEvents(d.e.Events(), EventLineCrossed); n != 1 {
		t.Fatalf("want exactly 1 line_crossed, got %d", n)
	}
}

func TestEngine_PitchExtremesSpawnPlayable(t *testing.T) {
	for _, pitch := range []float64{62, 580} {
		t.Run(fmt.Sprintf("pitch_%v", pitch), func(t *testing.T) {
			d := newDriver(t, func(c *GameConfig) { c.PitchHeight = pitch })
			d.benchDefenders()
			d.e.StartGame()
			limits := d.e.Field().BoundaryLines.Inset(raiderSize)
			spawn := d.e.Raider().Position

			d.tick(30)
			if d.e.HasCrossedCenterLine() || countEvents(d.e.Events(), EventLineCrossed) != 0 {
				t.Fatal("an idle raider must not cross the line")
			}

			d.e.UpdateControls(Controls{Up: true})
			d.until(d.e.HasCrossedCenterLine, 300, "crossing")
			if r := d.e.Raider().Position; r.Y >= spawn.Y || !limits.Contains(r) {
				t.Fatalf("raider should have moved up inside %+v, at %+v from %+v", limits, r, spawn)
			}
		})
	}
}

func TestEngine_RaiderStaysInsideBoundary(t *testing.T) {
	inputs := []Controls{
		{Up: true, Left: true},
		{Up: true, Right: true},
		{Down: true, Left: true},
		{Down: true, Right: true},
	}
	for _, in := range inputs {
		d := newDriver(t, nil)
		d.benchDefenders()
		d.e.StartGame()
		d.e.UpdateControls(in)
		limits := d.e.Field().BoundaryLines.Inset(raiderSize)
		for i := 0; i < 600; i++ {
			d.tick(1)
			if p := d.e.Raider().Position; !limits.Contains(p) {
				t.Fatalf("%+v tick %d: raider at (%.2f,%.2f) outside %+v", in, i, p.X, p.Y, limits)
			}
		}
	}
}

func TestEngine_WallSliding(t *testing.T) {
	d := newDriver(t, nil)
	d.benchDefenders()
	d.e.StartGame()
	d.e.UpdateControls(Controls{Left: true})
	d.tick(300)

	p := d.e.Raider().Position
	if p.X < 40 || p.X > 40+3 {
		t.Fatalf("raider should stop within one step of the left wall, x=%.2f", p.X)
	}

	// Pushing into the wall while moving up still moves up.
	d.e.UpdateControls(Controls{Left: true, Up: true})
	d.tick(10)
	q := d.e.Raider().Position
	if q.X < 40 || q.X > 40+3 {
		t.Fatalf("raider should stay against the wall, x=%.2f", q.X)
	}
	if q.Y >= p.Y {
		t.Fatalf("raider should slide up the wall: y %.2f → %.2f", p.Y, q.Y)
	}
}

func TestEngine_DiagonalIsNormalized(t *testing.T) {
	d := newDriver(t, nil)
	d.benchDefenders()
	d.e.StartGame()
	d.e.UpdateControls(Controls{Up: true, Right: true})
	start := d.e.Raider().Position
	d.tick(2) // zero-delta tick, then one frame
	p := d.e.Raider().Position
	if math.Abs((p.X-start.X)-3*diagonalScale) > 1e-9 || math.Abs((start.Y-p.Y)-3*diagonalScale) > 1e-9 {
		t.Fatalf("diagonal step should be 3*0.707 per axis, moved (%.4f,%.4f)", p.X-start.X, start.Y-p.Y)
	}
}

func TestEngine_SuccessfulRaidScores(t *testing.T) {
	d := newDriver(t, nil)
	d.benchDefenders()
	d.e.StartGame()

	d.e.UpdateControls(Controls{Up: true})
	d.until(d.e.HasCrossedCenterLine, 200, "crossing")
	if d.e.GameState().CurrentPhase != PhaseRaiding {
		t.Fatal("should still be raiding right after crossing")
	}

	d.e.UpdateControls(Controls{Down: true})
	d.until(d.e.IsRaiderReturning, 50, "return")
	if d.e.GameState().CurrentPhase != PhaseReturning {
		t.Fatal("crossing back should enter returning")
	}
	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseScored }, 200, "safe raid")

	if n := countEvents(d.e.Events(), EventRaiderSafe); n != 1 {
		t.Fatalf("want 1 raider_safe, got %d", n)
	}
	if s := d.e.Score(); s.Raiders != 1 || s.Defenders != 0 {
		t.Fatalf("want 1-0, got %+v", s)
	}
	if d.e.Raider().Position.Y <= d.e.Field().SafeLine() {
		t.Fatal("raid should only succeed past the safe line")
	}
}

func TestEngine_RaidResetSequence(t *testing.T) {
	d := newDriver(t, nil)
	d.benchDefenders()
	d.e.StartGame()
	d.e.UpdateControls(Controls{Up: true})
	d.until(d.e.HasCrossedCenterLine, 200, "crossing")
	d.e.UpdateControls(Controls{Down: true})
	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseScored }, 300, "safe raid")

	// During the pause the raider is frozen and nothing re-scores.
	frozen := d.e.Raider()
	if frozen.IsActive {
		t.Fatal("raider should be inactive between raids")
	}
	d.tick(60)
	if d.e.Raider().Position != frozen.Position {
		t.Fatal("raider should not move between raids")
	}
	if d.e.Score().Raiders != 1 {
		t.Fatal("score must not change between raids")
	}

	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseWaiting }, 90, "stage one")
	if d.e.Raider().Position != RaiderSpawn(d.e.Field(), d.e.Config()) {
		t.Fatal("stage one should return the raider to spawn")
	}
	if d.e.HasCrossedCenterLine() || d.e.IsRaiderReturning() {
		t.Fatal("stage one should clear raid flags")
	}
	if d.e.GameState().RaidTimer != 30 {
		t.Fatalf("stage one should restore the raid timer, got %.2f", d.e.GameState().RaidTimer)
	}

	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseRaiding }, 150, "stage two")
	if n := countEvents(d.e.Events(), EventRaidStart); n != 2 {
		t.Fatalf("want 2 raid_start, got %d", n)
	}
	if !d.e.Raider().IsActive {
		t.Fatal("stage two should release the raider")
	}
}

func TestEngine_RaidTimeout(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.RaidDuration = 1 })
	d.benchDefenders()
	d.e.StartGame()
	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseTackled }, 120, "timeout")

	events := d.e.Events()
	if n := countEvents(events, EventRaidTimeout); n != 1 {
		t.Fatalf("want 1 raid_timeout, got %d", n)
	}
	if s := d.e.Score(); s.Defenders != 1 || s.Raiders != 0 {
		t.Fatalf("timeout should award the defenders a point, got %+v", s)
	}
	if n := countEvents(events, EventRaiderCaught); n != 0 {
		t.Fatalf("a timeout is not a catch, got %d raider_caught", n)
	}
	if st := CalculateStats(events); st.Timeouts != 1 || st.RaidersCaught != 0 {
		t.Fatalf("stats should count one timeout and no catches, got %+v", st)
	}
	if got := CalculateScore(events, Score{}); got != d.e.Score() {
		t.Fatalf("event fold %+v disagrees with engine score %+v", got, d.e.Score())
	}
	if d.e.GameState().RaidTimer < 0 {
		t.Fatal("raid timer must not go negative")
	}

	// The expired timer must not fire again while the reset is pending.
	d.tick(100)
	if n := countEvents(d.e.Events(), EventRaidTimeout); n != 1 {
		t.Fatalf("timeout fired again: %d", n)
	}
}

func TestEngine_RaidTimeoutMidCrossing(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.RaidDuration = 2 })
	d.benchDefenders()
	d.e.StartGame()
	d.e.UpdateControls(Controls{Up: true})
	d.until(d.e.HasCrossedCenterLine, 200, "crossing")
	if d.e.GameState().CurrentPhase != PhaseRaiding {
		t.Fatal("test setup: raid should still be running after crossing")
	}

	d.until(func() bool { return countEvents(d.e.Events(), EventRaidTimeout) == 1 }, 120, "timeout")
	if d.e.Score().Defenders != 1 {
		t.Fatalf("timeout mid-crossing should still award the defenders, got %+v", d.e.Score())
	}
	if countEvents(d.e.Events(), EventRaiderSafe) != 0 {
		t.Fatal("a timed-out raid cannot also succeed")
	}
}

func TestEngine_TagDefenderInRaiderTerritory(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.raider.Position = Position{X: 700, Y: 320}
	d.e.defenders[5].Position = Position{X: 700, Y: 320}
	d.e.defenders[6].Position = Position{X: 705, Y: 320}

	d.tick(1)
	events := d.e.Events()
	if n := countEvents(events, EventDefenderTagged); n != 1 {
		t.Fatalf("only one contact may register per tick, got %d tags", n)
	}
	last := events[len(events)-1]
	if last.PlayerID != "defender_5" {
		t.Fatalf("first defender in roster order should be tagged, got %s", last.PlayerID)
	}
	ds := d.e.Defenders()
	if ds[5].IsActive || !ds[5].IsTagged {
		t.Fatal("tagged defender should be out of play")
	}
	if s := d.e.Score(); s.Raiders != 1 {
		t.Fatalf("tag should score a raider point, got %+v", s)
	}
	if d.e.GameState().CurrentPhase != PhaseRaiding {
		t.Fatal("a tag does not end the raid")
	}

	d.tick(1)
	if n := countEvents(d.e.Events(), EventDefenderTagged); n != 2 {
		t.Fatalf("second defender should be tagged on the next tick, got %d tags", n)
	}
}

func TestEngine_RaiderCaughtInDefenderTerritory(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.raider.Position = Position{X: 700, Y: 280}
	d.e.defenders[5].Position = Position{X: 700, Y: 280}
	d.e.defenders[6].Position = Position{X: 705, Y: 280}

	d.tick(1)
	events := d.e.Events()
	if n := countEvents(events, EventRaiderCaught); n != 1 {
		t.Fatalf("want 1 raider_caught, got %d", n)
	}
	last := events[len(events)-1]
	if last.Type != EventRaiderCaught || last.PlayerID != "defender_5" {
		t.Fatalf("want catch by defender_5, got %+v", last)
	}
	if d.e.GameState().CurrentPhase != PhaseTackled {
		t.Fatal("catch should end the raid in tackled")
	}
	if !d.e.Raider().IsTagged {
		t.Fatal("caught raider should be tagged")
	}
	if s := d.e.Score(); s.Defenders != 1 || s.Raiders != 0 {
		t.Fatalf("want 0-1, got %+v", s)
	}
	if countEvents(events, EventDefenderTagged) != 0 {
		t.Fatal("no defender may be tagged by a caught raider")
	}
}

func TestEngine_RaiderOnCenterLineTagsInsteadOfCaught(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.raider.Position = Position{X: 700, Y: 300}
	d.e.defenders[6].Position = Position{X: 700, Y: 290}

	d.tick(1)
	if countEvents(d.e.Events(), EventDefenderTagged) != 1 || countEvents(d.e.Events(), EventRaiderCaught) != 0 {
		t.Fatal("a raider exactly on the centre line should tag, not be caught")
	}
}

func TestEngine_TaggedDefendersReturnNextRaid(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.RaidDuration = 1 })
	d.e.StartGame()
	d.e.raider.Position = Position{X: 700, Y: 320}
	d.e.defenders[5].Position = Position{X: 700, Y: 320}
	d.tick(1)
	if d.e.Defenders()[5].IsActive {
		t.Fatal("test setup: defender should be tagged")
	}

	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseWaiting }, 300, "raid reset")
	ds := d.e.Defenders()
	if !ds[5].IsActive || ds[5].IsTagged {
		t.Fatal("tagged defender should be restored for the next raid")
	}
	if ds[5].FormationPosition != CreateAIDefenders(d.e.Field(), d.e.Difficulty())[5].FormationPosition {
		t.Fatal("formation slots are fixed for the game")
	}
}

func TestEngine_GameOverByTime(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.GameDuration = 1 })
	d.benchDefenders()
	d.e.StartGame()
	d.until(func() bool { return d.e.GameState().IsGameOver }, 120, "game over")

	st := d.e.GameState()
	if st.IsPlaying || st.GameTimer != 0 {
		t.Fatalf("unexpected end state: %+v", st)
	}
	d.tick(60)
	if n := countEvents(d.e.Events(), EventGameOver); n != 1 {
		t.Fatalf("want exactly 1 game_over, got %d", n)
	}
}

func TestEngine_GameOverByScore(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.MaxScore = 1 })
	d.benchDefenders()
	d.e.StartGame()
	d.e.UpdateControls(Controls{Up: true})
	d.until(d.e.HasCrossedCenterLine, 200, "crossing")
	d.e.UpdateControls(Controls{Down: true})
	d.until(func() bool { return d.e.GameState().IsGameOver }, 300, "game over")

	if d.e.Score().Raiders != 1 {
		t.Fatalf("want 1-0 at game over, got %+v", d.e.Score())
	}
	d.advance(5000)
	if n := countEvents(d.e.Events(), EventRaidStart); n != 1 {
		t.Fatalf("no raid may start after game over, got %d raid_start", n)
	}
	d.e.StartGame()
	if d.e.GameState().IsPlaying {
		t.Fatal("StartGame after game over should be a no-op until reset")
	}
}

func TestEngine_ResetCancelsPendingRaidReset(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.RaidDuration = 1 })
	d.benchDefenders()
	d.e.StartGame()
	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseTackled }, 120, "timeout")
	if d.e.sched.Pending() == 0 {
		t.Fatal("test setup: a raid reset should be pending")
	}

	d.e.ResetGame()
	if d.e.sched.Pending() != 0 {
		t.Fatal("ResetGame should cancel the pending raid reset")
	}
	if d.e.Score() != (Score{}) || len(d.e.Events()) != 0 {
		t.Fatal("ResetGame should clear score and events")
	}

	d.e.StartGame()
	d.advance(900)
	if n := countEvents(d.e.Events(), EventRaidStart); n != 1 {
		t.Fatalf("stale reset fired into the new game: %d raid_start", n)
	}
	if d.e.GameState().CurrentPhase != PhaseRaiding {
		t.Fatalf("new game should be raiding, got %s", d.e.GameState().CurrentPhase)
	}
}

func TestEngine_DisposeStopsEverything(t *testing.T) {
	d := newDriver(t, func(c *GameConfig) { c.RaidDuration = 1 })
	d.benchDefenders()
	d.e.StartGame()
	d.until(func() bool { return d.e.GameState().CurrentPhase == PhaseTackled }, 120, "timeout")

	d.e.Dispose()
	before := len(d.e.Events())
	d.advance(5000)
	if len(d.e.Events()) != before {
		t.Fatal("disposed engine should not log events")
	}
	if d.e.GameState().CurrentPhase != PhaseTackled {
		t.Fatal("disposed engine should not run the raid reset")
	}
}

func TestEngine_PauseSkipsElapsedTime(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.tick(10)
	before := d.e.GameState()

	d.e.TogglePause()
	d.e.Update(d.now + 5000)
	if d.e.GameState().GameTimer != before.GameTimer {
		t.Fatal("paused engine should not advance")
	}

	d.e.TogglePause()
	d.now += 10000
	d.e.Update(d.now)
	if d.e.GameState().GameTimer != before.GameTimer {
		t.Fatal("time spent paused must not be simulated")
	}
	d.now += frameMs
	d.e.Update(d.now)
	if got := before.GameTimer - d.e.GameState().GameTimer; math.Abs(got-frameMs/1000) > 1e-9 {
		t.Fatalf("one frame should elapse after resuming, elapsed %.5f", got)
	}
}

func TestEngine_NegativeDeltaIgnored(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.Update(1000)
	d.e.Update(500)
	if d.e.GameState().GameTimer != 600 {
		t.Fatal("a timestamp going backwards must not add time")
	}
}

func TestEngine_GettersReturnCopies(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.tick(3)

	ds := d.e.Defenders()
	ds[0].Position = Position{X: -1, Y: -1}
	ds[0].IsActive = false
	if got := d.e.Defenders()[0]; got.Position.X == -1 || !got.IsActive {
		t.Fatal("mutating Defenders() result leaked into the engine")
	}

	events := d.e.Events()
	events[0].Type = EventGameOver
	if d.e.Events()[0].Type != EventRaidStart {
		t.Fatal("mutating Events() result leaked into the engine")
	}

	trail := d.e.RaiderTrail()
	if len(trail) == 0 {
		t.Fatal("trail should have samples")
	}
	trail[0] = Position{X: -5}
	if d.e.RaiderTrail()[0].X == -5 {
		t.Fatal("mutating RaiderTrail() result leaked into the engine")
	}

	snap := d.e.Snapshot()
	snap.Defenders[1].IsTagged = true
	if d.e.Defenders()[1].IsTagged {
		t.Fatal("mutating a snapshot leaked into the engine")
	}
}

func TestEngine_TrailBounded(t *testing.T) {
	d := newDriver(t, nil)
	d.benchDefenders()
	d.e.StartGame()
	d.e.UpdateControls(Controls{Right: true})
	d.tick(50)
	trail := d.e.RaiderTrail()
	if len(trail) != TrailLength {
		t.Fatalf("want %d trail samples, got %d", TrailLength, len(trail))
	}
	if trail[len(trail)-1] != d.e.Raider().Position {
		t.Fatal("newest trail sample should be the current position")
	}
	if trail[0].X >= trail[len(trail)-1].X {
		t.Fatal("trail should be oldest first")
	}
}

func TestEngine_EventsSince(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	if got := d.e.EventsSince(0); len(got) != 1 || got[0].Type != EventRaidStart {
		t.Fatalf("want the opening raid_start, got %+v", got)
	}
	if got := d.e.EventsSince(1); got != nil {
		t.Fatalf("caught-up consumer should get nil, got %+v", got)
	}
	if got := d.e.EventsSince(50); len(got) != 1 {
		t.Fatal("an index past the log should restart from the beginning")
	}
}

func TestEngine_ScoreMatchesEventFold(t *testing.T) {
	d := newDriver(t, nil)
	d.e.StartGame()
	d.e.raider.Position = Position{X: 700, Y: 320}
	d.e.defenders[5].Position = Position{X: 700, Y: 320}
	d.e.defenders[6].Position = Position{X: 705, Y: 320}
	d.tick(2)
	d.e.raider.Position = Position{X: 180, Y: 280}
	d.tick(1)

	if got := CalculateScore(d.e.Events(), Score{}); got != d.e.Score() {
		t.Fatalf("fold of the log %+v differs from engine score %+v", got, d.e.Score())
	}
	if d.e.Score().Raiders != 2 || d.e.Score().Defenders != 1 {
		t.Fatalf("want 2-1, got %+v", d.e.Score())
	}
}
