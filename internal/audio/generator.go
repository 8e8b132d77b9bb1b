package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// attackSec is the fade-in applied to every generated tone.
const attackSec = 0.01

// ToneGenerator is a sine tone sweeping linearly from one frequency to
// another over its first second, with a short attack.
type ToneGenerator struct {
	sr       beep.SampleRate
	from, to float64
	amp      float64
	phase    float64
	pos      int
}

// NewToneGenerator creates an endless tone; wrap it in beep.Take.
func NewToneGenerator(sr beep.SampleRate, from, to, amp float64) *ToneGenerator {
	return &ToneGenerator{sr: sr, from: from, to: to, amp: amp}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		freq := g.from + (g.to-g.from)*math.Min(t, 1)
		g.phase += freq / float64(g.sr)
		if g.phase >= 1 {
			g.phase -= math.Floor(g.phase)
		}
		v := g.amp * math.Sin(2*math.Pi*g.phase) * math.Min(t/attackSec, 1)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// BuzzGenerator is a harsh low buzz built from the first three harmonics.
type BuzzGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

// NewBuzzGenerator creates an endless buzz; wrap it in beep.Take.
func NewBuzzGenerator(sr beep.SampleRate, freq float64) *BuzzGenerator {
	return &BuzzGenerator{sr: sr, freq: freq}
}

func (g *BuzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		v := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		v += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		v += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)
		v *= math.Min(t/attackSec, 1) * 0.5

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *BuzzGenerator) Err() error {
	return nil
}
