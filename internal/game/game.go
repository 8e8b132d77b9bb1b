// Package game is the windowed ebiten front-end for the kabaddi simulation.
package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garsondee/kabaddi/internal/audio"
	"github.com/Garsondee/kabaddi/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the canvas.
const borderWidth = 16

// statusLifetime is how many frames a status line stays on the results screen.
const statusLifetime = 180

type screenKind int

const (
	screenStart screenKind = iota
	screenPlay
	screenResults
)

// CuePlayer is the slice of the sound manager the game needs.
type CuePlayer interface {
	Play(c audio.Cue)
	SetMuted(m bool)
	Muted() bool
}

type silentPlayer struct{ muted bool }

func (s *silentPlayer) Play(audio.Cue)  {}
func (s *silentPlayer) SetMuted(m bool) { s.muted = m }
func (s *silentPlayer) Muted() bool     { return s.muted }

type Game struct {
	width  int
	height int
	offX   int // pixel offset from window left to the canvas
	offY   int

	cfg        sim.FileConfig
	difficulty sim.Difficulty
	eng        *sim.Engine
	seenEvents int

	screen  screenKind
	outcome sim.MatchOutcome
	status  string
	statusT int

	feed        *EventFeed
	callouts    []*Callout
	showOverlay bool

	keys  keySource
	sound CuePlayer
	log   *zap.Logger
	clock func() float64 // monotonic ms
}

// Option customises a Game at construction.
type Option func(*Game)

// WithFileConfig replaces the default match and difficulty configuration.
func WithFileConfig(fc sim.FileConfig) Option {
	return func(g *Game) { g.cfg = fc }
}

// WithDifficulty preselects a difficulty on the start screen.
func WithDifficulty(d sim.Difficulty) Option {
	return func(g *Game) { g.difficulty = d }
}

// WithLogger routes game and engine logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// WithSound plays event cues through p.
func WithSound(p CuePlayer) Option {
	return func(g *Game) {
		if p != nil {
			g.sound = p
		}
	}
}

func withKeys(k keySource) Option {
	return func(g *Game) { g.keys = k }
}

func withClock(c func() float64) Option {
	return func(g *Game) { g.clock = c }
}

// New builds the game on its start screen.
func New(opts ...Option) (*Game, error) {
	fc := sim.DefaultFileConfig()
	d, _ := fc.Selected()
	g := &Game{
		cfg:        fc,
		difficulty: d,
		feed:       NewEventFeed(),
		keys:       ebitenKeys{},
		sound:      &silentPlayer{},
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(g)
	}
	if g.clock == nil {
		start := time.Now()
		g.clock = func() float64 {
			return float64(time.Since(start)) / float64(time.Millisecond)
		}
	}

	g.width = borderWidth + int(g.cfg.Game.CanvasWidth) + borderWidth + feedPanelWidth
	g.height = borderWidth + int(g.cfg.Game.CanvasHeight) + borderWidth
	g.offX = borderWidth
	g.offY = borderWidth

	if err := g.newEngine(); err != nil {
		return nil, err
	}
	return g, nil
}

// newEngine replaces the engine with a fresh one for the selected difficulty.
func (g *Game) newEngine() error {
	if g.eng != nil {
		g.eng.Dispose()
	}
	eng, err := sim.NewEngine(g.cfg.Game, g.cfg.ProfileFor(g.difficulty), sim.WithLogger(g.log))
	if err != nil {
		return errors.Wrap(err, "create engine")
	}
	g.eng = eng
	g.seenEvents = 0
	g.callouts = nil
	g.log.Info("engine ready", zap.Stringer("difficulty", g.difficulty))
	return nil
}

func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}

	if g.screen == screenPlay {
		g.eng.UpdateControls(controlsFromKeys(g.keys))
		g.eng.Update(g.clock())
		g.consumeEvents()
		if g.eng.GameState().IsGameOver {
			g.finish()
		}
	}

	g.updateCallouts()
	if g.statusT > 0 {
		g.statusT--
	}
	return nil
}

// handleInput processes the edge-triggered keys for the current screen.
func (g *Game) handleInput() error {
	k := g.keys

	if k.justPressed(ebiten.KeyM) {
		g.sound.SetMuted(!g.sound.Muted())
	}
	if k.justPressed(ebiten.KeyTab) {
		g.showOverlay = !g.showOverlay
	}

	switch g.screen {
	case screenStart:
		for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
			if k.justPressed(key) && sim.Difficulties()[i] != g.difficulty {
				g.difficulty = sim.Difficulties()[i]
				if err := g.newEngine(); err != nil {
					return err
				}
			}
		}
		if k.justPressed(ebiten.KeyEnter) || k.justPressed(ebiten.KeyKPEnter) {
			g.start()
		}

	case screenPlay:
		if k.justPressed(ebiten.KeyP) {
			g.eng.TogglePause()
		}
		if k.justPressed(ebiten.KeyEscape) {
			g.eng.ResetGame()
			g.seenEvents = 0
			g.callouts = nil
			g.screen = screenStart
		}

	case screenResults:
		if k.justPressed(ebiten.KeyR) {
			g.eng.ResetGame()
			g.seenEvents = 0
			g.start()
		}
		if k.justPressed(ebiten.KeyEscape) {
			g.eng.ResetGame()
			g.seenEvents = 0
			g.screen = screenStart
		}
		if k.justPressed(ebiten.KeyC) {
			g.copyReport()
		}
	}
	return nil
}

func (g *Game) start() {
	g.feed.Clear()
	g.callouts = nil
	g.eng.StartGame()
	g.screen = screenPlay
	g.consumeEvents()
}

// finish switches to the results screen once the engine reports game over.
func (g *Game) finish() {
	g.outcome = sim.DetermineOutcome(g.eng.Score(), g.eng.GameState(), g.eng.Events(), g.eng.Config())
	g.screen = screenResults
	g.log.Info("match finished",
		zap.String("result", g.outcome.Description),
		zap.Int("raids", g.outcome.Stats.TotalRaids))
}

// consumeEvents feeds new engine events to the feed, call-outs and sound.
func (g *Game) consumeEvents() {
	events := g.eng.EventsSince(g.seenEvents)
	g.seenEvents = g.eng.EventCount()
	if len(events) == 0 {
		return
	}
	snap := g.eng.Snapshot()
	for _, ev := range events {
		g.feed.Add(ev)
		if c := calloutFor(ev, snap); c != nil {
			g.callouts = append(g.callouts, c)
		}
		g.sound.Play(audio.CueFor(ev))
	}
}

func (g *Game) copyReport() {
	if err := clipboard.WriteAll(g.outcome.Report()); err != nil {
		g.log.Warn("clipboard copy failed", zap.Error(err))
		g.setStatus("copy failed: " + err.Error())
		return
	}
	g.setStatus("match report copied to clipboard")
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusT = statusLifetime
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	snap := g.eng.Snapshot()
	g.drawField(screen, snap)
	g.drawTrail(screen, snap)
	g.drawPlayers(screen, snap)
	if g.showOverlay && g.screen != screenStart {
		g.drawAIOverlay(screen, snap)
	}
	g.drawCallouts(screen)

	feedX := g.offX + int(g.cfg.Game.CanvasWidth) + borderWidth
	g.feed.Draw(screen, feedX, g.height)

	switch g.screen {
	case screenStart:
		g.drawStartScreen(screen)
	case screenPlay:
		g.drawHUD(screen, snap)
		if snap.State.IsPaused {
			g.drawBanner(screen, "PAUSED", "P to resume  Esc to quit")
		}
	case screenResults:
		g.drawHUD(screen, snap)
		g.drawResults(screen)
	}
}

func (g *Game) drawBanner(screen *ebiten.Image, title, sub string) {
	cw := float32(g.cfg.Game.CanvasWidth)
	ch := float32(g.cfg.Game.CanvasHeight)
	ox, oy := float32(g.offX), float32(g.offY)
	vector.FillRect(screen, ox, oy+ch/2-40, cw, 80, color.RGBA{R: 0, G: 0, B: 0, A: 170}, false)
	drawTextCentered(screen, title, int(ox+cw/2), int(oy+ch/2-20), 2, colTextBright)
	drawTextCentered(screen, sub, int(ox+cw/2), int(oy+ch/2+16), 1, colTextDim)
}

func (g *Game) drawStartScreen(screen *ebiten.Image) {
	cw := float32(g.cfg.Game.CanvasWidth)
	ch := float32(g.cfg.Game.CanvasHeight)
	ox, oy := float32(g.offX), float32(g.offY)
	vector.FillRect(screen, ox, oy, cw, ch, color.RGBA{R: 0, G: 0, B: 0, A: 150}, false)

	cx := int(ox + cw/2)
	y := int(oy + ch/3)
	drawTextCentered(screen, "KABADDI", cx, y, 3, colTextBright)
	y += 60
	drawTextCentered(screen, "Cross the line, tag defenders, get home.", cx, y, 1, colTextDim)
	y += 40
	for i, d := range sim.Difficulties() {
		marker := "  "
		col := colTextDim
		if d == g.difficulty {
			marker = "> "
			col = colTextBright
		}
		drawTextCentered(screen, fmt.Sprintf("%s[%d] %s", marker, i+1, d), cx, y, 1, col)
		y += 20
	}
	y += 20
	drawTextCentered(screen, "Enter to start  WASD/arrows to move  M mute  Tab AI overlay", cx, y, 1, colTextDim)
}

func (g *Game) drawResults(screen *ebiten.Image) {
	cw := float32(g.cfg.Game.CanvasWidth)
	ch := float32(g.cfg.Game.CanvasHeight)
	ox, oy := float32(g.offX), float32(g.offY)
	bw, bh := float32(420), float32(200)
	bx, by := ox+(cw-bw)/2, oy+(ch-bh)/2
	vector.FillRect(screen, bx, by, bw, bh, color.RGBA{R: 6, G: 10, B: 6, A: 230}, false)
	vector.StrokeRect(screen, bx, by, bw, bh, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 200}, false)

	cx := int(bx + bw/2)
	y := int(by) + 20
	drawTextCentered(screen, "FULL TIME", cx, y, 2, colTextBright)
	y += 40
	drawTextCentered(screen, g.outcome.Description, cx, y, 1, colTextBright)
	y += 24
	st := g.outcome.Stats
	drawTextCentered(screen, fmt.Sprintf("Raids %d  Successful %d (%.0f%%)", st.TotalRaids, st.SuccessfulRaids, g.outcome.SuccessRate*100), cx, y, 1, colTextDim)
	y += 18
	drawTextCentered(screen, fmt.Sprintf("Tags %d  Catches %d  Timeouts %d", st.DefendersTagged, st.RaidersCaught, st.Timeouts), cx, y, 1, colTextDim)
	y += 34
	drawTextCentered(screen, "R restart  C copy report  Esc menu", cx, y, 1, colTextDim)
	if g.statusT > 0 {
		drawTextCentered(screen, g.status, cx, int(by+bh)+14, 1, colAccent)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// WindowSize returns the logical window size.
func (g *Game) WindowSize() (int, int) {
	return g.width, g.height
}
