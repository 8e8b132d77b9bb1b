package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"
)

// HeadlessFrameMs is the fixed frame length of the headless harness (60fps).
const HeadlessFrameMs = frameMs

// Controller produces the raider's input for one frame.
type Controller func(Snapshot) Controls

// TestSim is a headless match driver. It mirrors the windowed game loop
// (controls, then Update at a monotonic timestamp) at a fixed frame rate with
// deterministic seeding and structured logging.
type TestSim struct {
	Engine *Engine
	SimLog *SimLog
	Tick   int

	cfg        GameConfig
	diff       DifficultyConfig
	seed       int64
	logger     *zap.Logger
	controller Controller
	noStart    bool
	now        float64
}

// SimOption is a builder function applied to a TestSim during construction.
type SimOption func(*TestSim)

// WithGameConfig replaces the default match configuration.
func WithGameConfig(cfg GameConfig) SimOption {
	return func(ts *TestSim) { ts.cfg = cfg }
}

// WithDifficulty selects a built-in defender profile.
func WithDifficulty(d Difficulty) SimOption {
	return func(ts *TestSim) { ts.diff = d.Profile() }
}

// WithDifficultyConfig sets a custom defender profile.
func WithDifficultyConfig(d DifficultyConfig) SimOption {
	return func(ts *TestSim) { ts.diff = d }
}

// WithSimSeed sets the seed shared by the engine and the autopilot.
func WithSimSeed(seed int64) SimOption {
	return func(ts *TestSim) { ts.seed = seed }
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) SimOption {
	return func(ts *TestSim) { ts.SimLog = NewSimLog(v) }
}

// WithSimLogger routes engine logs to l.
func WithSimLogger(l *zap.Logger) SimOption {
	return func(ts *TestSim) { ts.logger = l }
}

// WithController replaces the autopilot with a custom input source.
func WithController(c Controller) SimOption {
	return func(ts *TestSim) { ts.controller = c }
}

// WithHeldControls drives the raider with the same input every frame.
func WithHeldControls(c Controls) SimOption {
	return WithController(func(Snapshot) Controls { return c })
}

// WithoutStart leaves the match unstarted so tests can arrange state first.
func WithoutStart() SimOption {
	return func(ts *TestSim) { ts.noStart = true }
}

// NewTestSim builds and (unless WithoutStart) starts a headless match.
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		SimLog: NewSimLog(false),
		cfg:    DefaultGameConfig(),
		diff:   DifficultyMedium.Profile(),
		seed:   1,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(ts)
	}
	rng := rand.New(rand.NewSource(ts.seed)) // #nosec G404 -- test harness
	eng, err := NewEngine(ts.cfg, ts.diff,
		WithRand(rng),
		WithLogger(ts.logger))
	if err != nil {
		return nil, err
	}
	ts.Engine = eng
	if ts.controller == nil {
		ap := NewAutopilot(rand.New(rand.NewSource(ts.seed + 7777))) // #nosec G404 -- test harness
		ts.controller = ap.Controls
	}
	if !ts.noStart {
		ts.Start()
	}
	return ts, nil
}

// Start begins the match and logs the opening events.
func (ts *TestSim) Start() {
	before := ts.Engine.EventCount()
	ts.Engine.StartGame()
	ts.logEvents(before)
}

// RunTicks advances the match n frames.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances up to maxTicks frames, stopping early once predicate
// holds. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.Tick
		}
	}
	return -1
}

// RunToEnd plays until game over or maxTicks frames, returning the ticks run.
func (ts *TestSim) RunToEnd(maxTicks int) int {
	start := ts.Tick
	ts.RunUntil(func(s *TestSim) bool { return s.Engine.GameState().IsGameOver }, maxTicks)
	return ts.Tick - start
}

// Now returns the timestamp that will be passed to the next Update.
func (ts *TestSim) Now() float64 {
	return ts.now
}

func (ts *TestSim) runOneTick() {
	ts.Tick++
	before := ts.Engine.Snapshot()

	ts.Engine.UpdateControls(ts.controller(before))
	ts.Engine.Update(ts.now)
	ts.now += HeadlessFrameMs

	after := ts.Engine.Snapshot()
	ts.logEvents(before.EventCount)

	if after.State.CurrentPhase != before.State.CurrentPhase {
		ts.SimLog.Add(ts.Tick, RaiderID, "phase", "change",
			fmt.Sprintf("%s → %s", before.State.CurrentPhase, after.State.CurrentPhase), 0)
	}
	if after.Score != before.Score {
		ts.SimLog.Add(ts.Tick, "--", "score", "change",
			fmt.Sprintf("%d-%d → %d-%d", before.Score.Raiders, before.Score.Defenders,
				after.Score.Raiders, after.Score.Defenders),
			float64(after.Score.Raiders+after.Score.Defenders))
	}
	ts.SimLog.AddVerbose(ts.Tick, RaiderID, "move", "position",
		fmt.Sprintf("(%.1f,%.1f)", after.Raider.Position.X, after.Raider.Position.Y),
		after.Raider.Position.Y)
}

func (ts *TestSim) logEvents(since int) {
	for _, ev := range ts.Engine.EventsSince(since) {
		actor := ev.PlayerID
		if actor == "" {
			actor = "--"
		}
		ts.SimLog.Add(ts.Tick, actor, "event", ev.Type.String(), ev.Message, float64(ev.Points))
	}
}

// Outcome summarises the match as it stands.
func (ts *TestSim) Outcome() MatchOutcome {
	return DetermineOutcome(ts.Engine.Score(), ts.Engine.GameState(), ts.Engine.Events(), ts.cfg)
}
