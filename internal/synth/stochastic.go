package synth

import (
	"math/rand/v2"
	"time"

	"github.com/doismellburning/soundmix/internal/geometry"
)

// StochasticConfig parameterizes an ambient repeating generator whose notes
// have randomized frequency within a range, with no silence inserted
// between notes (spec section 4.2's "Stochastic repeating" sub-pattern).
// Grounded on Amoeba/MagicWall/Cover in synthsamples.py.
type StochasticConfig struct {
	MinFreq, MaxFreq float64
	Amplitude        float64
	Attack           time.Duration
	Decay            time.Duration
	Sustain          time.Duration
	Release          time.Duration
	SustainLevel     float64
}

// NewStochasticRepeating builds a Generator intended to always be played
// with repeat=true: each time the current note's envelope completes, a new
// triangle oscillator with a freshly randomized frequency in
// [MinFreq,MaxFreq) is constructed and played immediately, without a gap.
func NewStochasticRepeating(geom geometry.Geometry, name string, cfg StochasticConfig) *Generator {
	buildNote := func() FrameProducer {
		freq := cfg.MinFreq + rand.Float64()*(cfg.MaxFreq-cfg.MinFreq)
		osc := NewTriangle(freq, geom.SampleRate, cfg.Amplitude)
		env := NewEnvelope(osc, geom.SampleRate, cfg.Attack, cfg.Decay, cfg.Sustain, cfg.Release, cfg.SustainLevel, true)
		return Mono(env)
	}

	newNotes := func(repeat bool) NoteFactory {
		played := false
		return func() (FrameProducer, bool) {
			if !repeat {
				// Stochastic cues are defined as always repeating; a
				// non-repeating play still produces exactly one note so
				// callers get audible feedback instead of silence.
				if played {
					return nil, false
				}
				played = true
			}
			return buildNote(), true
		}
	}

	return NewGenerator(geom, name, 0, newNotes)
}
