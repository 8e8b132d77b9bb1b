// Package audio plays the short synthesized cues that accompany match events.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/Garsondee/kabaddi/internal/sim"
)

const (
	sampleRate = beep.SampleRate(44100)

	// speakerBufferMs trades latency for underrun safety.
	speakerBufferMs = 100
)

// Cue is one of the sounds the game can play.
type Cue int

const (
	CueNone Cue = iota
	CueWhistle
	CueCross
	CueTag
	CueSafe
	CueCaught
	CueTimeout
	CueGameOver
)

func (c Cue) String() string {
	switch c {
	case CueWhistle:
		return "whistle"
	case CueCross:
		return "cross"
	case CueTag:
		return "tag"
	case CueSafe:
		return "safe"
	case CueCaught:
		return "caught"
	case CueTimeout:
		return "timeout"
	case CueGameOver:
		return "game_over"
	default:
		return "none"
	}
}

// CueFor maps a match event to its cue.
func CueFor(ev sim.GameEvent) Cue {
	switch ev.Type {
	case sim.EventRaidStart:
		return CueWhistle
	case sim.EventLineCrossed:
		return CueCross
	case sim.EventDefenderTagged:
		return CueTag
	case sim.EventRaiderSafe:
		return CueSafe
	case sim.EventRaiderCaught:
		return CueCaught
	case sim.EventRaidTimeout:
		return CueTimeout
	case sim.EventGameOver:
		return CueGameOver
	default:
		return CueNone
	}
}

// SoundManager owns the speaker and a mixer that cues are added to.
// Every method is safe to call before Initialize or after a failed
// Initialize; the game runs silently in that case.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	volume      float64 // 0..1
}

// NewSoundManager creates an uninitialised manager at full volume.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: 1,
	}
}

// Initialize opens the audio device. Calling it twice is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferMs*time.Millisecond)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything still playing.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// SetMuted turns cue playback off or on.
func (sm *SoundManager) SetMuted(m bool) {
	sm.mu.Lock()
	sm.muted = m
	sm.mu.Unlock()
}

// Muted reports whether cues are suppressed.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// SetVolume sets the master level, clamped to [0,1].
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	sm.volume = math.Max(0, math.Min(1, v))
	sm.mu.Unlock()
}

// Play starts a cue. It never blocks on the audio device.
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted || c == CueNone {
		return
	}
	s := withVolume(CueStreamer(c), sm.volume)
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// PlayEvents plays the cue for every event in order.
func (sm *SoundManager) PlayEvents(events []sim.GameEvent) {
	for _, ev := range events {
		sm.Play(CueFor(ev))
	}
}

// CueStreamer builds the finite stream for a cue.
func CueStreamer(c Cue) beep.Streamer {
	switch c {
	case CueWhistle:
		// Two-tone referee whistle.
		return beep.Seq(
			take(120, NewToneGenerator(sampleRate, 2300, 2300, 0.25)),
			take(220, NewToneGenerator(sampleRate, 2600, 2500, 0.25)),
		)
	case CueCross:
		return take(90, NewToneGenerator(sampleRate, 660, 880, 0.2))
	case CueTag:
		return beep.Seq(
			take(60, NewToneGenerator(sampleRate, 880, 880, 0.25)),
			take(80, NewToneGenerator(sampleRate, 1320, 1320, 0.25)),
		)
	case CueSafe:
		// Major chord.
		return beep.Mix(
			take(450, NewToneGenerator(sampleRate, 523.25, 523.25, 0.15)),
			take(450, NewToneGenerator(sampleRate, 659.25, 659.25, 0.15)),
			take(450, NewToneGenerator(sampleRate, 783.99, 783.99, 0.15)),
		)
	case CueCaught:
		return take(250, NewBuzzGenerator(sampleRate, 110))
	case CueTimeout:
		return beep.Seq(
			take(150, NewBuzzGenerator(sampleRate, 140)),
			beep.Silence(sampleRate.N(60*time.Millisecond)),
			take(250, NewBuzzGenerator(sampleRate, 100)),
		)
	case CueGameOver:
		return beep.Seq(
			take(200, NewToneGenerator(sampleRate, 784, 784, 0.2)),
			take(200, NewToneGenerator(sampleRate, 659, 659, 0.2)),
			take(500, NewToneGenerator(sampleRate, 523, 392, 0.2)),
		)
	default:
		return beep.Silence(0)
	}
}

func take(ms int, s beep.Streamer) beep.Streamer {
	return beep.Take(sampleRate.N(time.Duration(ms)*time.Millisecond), s)
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
