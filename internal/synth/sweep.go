package synth

import (
	"time"

	"github.com/doismellburning/soundmix/internal/geometry"
)

// SweepConfig parameterizes a finite, non-repeating sequence of tones at
// decreasing (or increasing) frequency, one envelope each. Grounded on
// Finished in synthsamples.py (180 descending tones played once).
type SweepConfig struct {
	Count        int
	StartFreq    float64
	FreqStep     float64 // added to frequency after each tone; negative descends
	Amplitude    float64
	Attack       time.Duration
	Decay        time.Duration
	Sustain      time.Duration
	Release      time.Duration
	SustainLevel float64
}

// NewDescendingSweep builds a one-shot Generator playing cfg.Count
// enveloped tones in sequence, never repeating.
func NewDescendingSweep(geom geometry.Geometry, name string, cfg SweepConfig) *Generator {
	noteDuration := cfg.Attack + cfg.Decay + cfg.Sustain + cfg.Release
	total := time.Duration(cfg.Count) * noteDuration

	buildNote := func(i int) FrameProducer {
		freq := cfg.StartFreq + float64(i)*cfg.FreqStep
		osc := NewTriangle(freq, geom.SampleRate, cfg.Amplitude)
		env := NewEnvelope(osc, geom.SampleRate, cfg.Attack, cfg.Decay, cfg.Sustain, cfg.Release, cfg.SustainLevel, true)
		return Mono(env)
	}

	newNotes := func(repeat bool) NoteFactory {
		i := 0
		return func() (FrameProducer, bool) {
			if i >= cfg.Count {
				return nil, false
			}
			n := buildNote(i)
			i++
			return n, true
		}
	}

	return NewGenerator(geom, name, total, newNotes)
}
