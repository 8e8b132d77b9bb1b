// Package tui is a terminal front-end for the kabaddi simulation.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garsondee/kabaddi/internal/audio"
	"github.com/Garsondee/kabaddi/internal/sim"
)

// frameInterval is the render and simulation cadence (~60 FPS).
const frameInterval = 16 * time.Millisecond

// CuePlayer plays event sounds.
type CuePlayer interface {
	Play(c audio.Cue)
	SetMuted(m bool)
	Muted() bool
}

// Terminal drives one engine from a tcell screen.
type Terminal struct {
	screen tcell.Screen
	cfg    sim.FileConfig
	diff   sim.Difficulty
	eng    *sim.Engine
	sound  CuePlayer
	log    *zap.Logger

	input      heldInput
	seenEvents int
	status     string
	start      time.Time
}

// New builds a terminal front-end on an initialised screen.
func New(screen tcell.Screen, fc sim.FileConfig, d sim.Difficulty, sound CuePlayer, log *zap.Logger) (*Terminal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Terminal{
		screen: screen,
		cfg:    fc,
		diff:   d,
		sound:  sound,
		log:    log,
		start:  time.Now(),
		status: "Enter start  1/2/3 difficulty  arrows/WASD move  p pause  m mute  q quit",
	}
	if err := t.newEngine(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Terminal) newEngine() error {
	if t.eng != nil {
		t.eng.Dispose()
	}
	eng, err := sim.NewEngine(t.cfg.Game, t.cfg.ProfileFor(t.diff), sim.WithLogger(t.log))
	if err != nil {
		return errors.Wrap(err, "create engine")
	}
	t.eng = eng
	t.seenEvents = 0
	return nil
}

func (t *Terminal) now() float64 {
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}

// Run polls input and advances the match until quit or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := t.handleEvent(ev, t.now())
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		case <-ticker.C:
			t.step(t.now())
		}
	}
}

// step advances the engine to now and redraws.
func (t *Terminal) step(now float64) {
	t.eng.UpdateControls(t.input.Current(now))
	t.eng.Update(now)
	t.consumeEvents()
	drawSnapshot(t.screen, t.eng.Snapshot(), t.cfg.Game, t.status)
}

func (t *Terminal) consumeEvents() {
	events := t.eng.EventsSince(t.seenEvents)
	t.seenEvents = t.eng.EventCount()
	for _, ev := range events {
		t.status = ev.Message
		if ev.Type == sim.EventGameOver {
			o := sim.DetermineOutcome(t.eng.Score(), t.eng.GameState(), t.eng.Events(), t.eng.Config())
			t.status = o.Description + "  r restart  q quit"
		}
		if t.sound != nil {
			t.sound.Play(audio.CueFor(ev))
		}
	}
}

// handleEvent applies one terminal event and reports whether to quit.
func (t *Terminal) handleEvent(ev tcell.Event, now float64) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return true, nil
		}
		if t.input.press(ev.Key(), ev.Rune(), now) {
			return false, nil
		}
		return false, t.command(ev)
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false, nil
}

func (t *Terminal) command(ev *tcell.EventKey) error {
	st := t.eng.GameState()
	if ev.Key() == tcell.KeyEnter && !st.IsPlaying && !st.IsGameOver {
		t.eng.StartGame()
		t.consumeEvents()
		return nil
	}
	if ev.Key() != tcell.KeyRune {
		return nil
	}
	switch r := ev.Rune(); r {
	case 'p':
		if st.IsPlaying {
			t.eng.TogglePause()
		}
	case 'm':
		if t.sound != nil {
			t.sound.SetMuted(!t.sound.Muted())
		}
	case 'r':
		if st.IsGameOver {
			t.eng.ResetGame()
			t.seenEvents = 0
			t.input.clear()
			t.eng.StartGame()
			t.consumeEvents()
		}
	case '1', '2', '3':
		if st.IsPlaying || st.IsGameOver {
			return nil
		}
		t.diff = sim.Difficulties()[r-'1']
		t.status = "difficulty: " + t.diff.String()
		return t.newEngine()
	}
	return nil
}

// Engine exposes the running engine.
func (t *Terminal) Engine() *sim.Engine { return t.eng }
