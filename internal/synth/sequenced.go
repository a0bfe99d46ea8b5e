package synth

import (
	"time"

	"github.com/doismellburning/soundmix/internal/geometry"
)

// Note is one entry of a Sequenced melody: a pair of frequency-table
// indices, one oscillator panned to each stereo channel. Grounded on
// TitleMusic.title_music in synthsamples.py.
type Note struct {
	Left, Right int
}

// SequencedConfig parameterizes a deterministic, note-by-note melody
// generator (spec section 4.2's "Sequenced (music-like)" sub-pattern).
type SequencedConfig struct {
	Notes     []Note
	FreqTable []float64 // indexed by Note.Left / Note.Right
	Attack    time.Duration
	Decay     time.Duration
	Sustain   time.Duration
	Release   time.Duration
	Amplitude float64
}

// NewSequenced builds a Generator that plays a fixed sequence of
// two-oscillator notes, each panned left/right and enveloped identically,
// with seamless concatenation across chunk boundaries. Grounded on
// TitleMusic.chunked_frame_data.
func NewSequenced(geom geometry.Geometry, name string, cfg SequencedConfig) *Generator {
	noteDuration := cfg.Attack + cfg.Decay + cfg.Sustain + cfg.Release
	total := time.Duration(len(cfg.Notes)) * noteDuration

	buildNote := func(n Note) FrameProducer {
		f1 := cfg.FreqTable[n.Left]
		f2 := cfg.FreqTable[n.Right]
		osc1 := NewTriangle(f1, geom.SampleRate, cfg.Amplitude)
		osc2 := NewTriangle(f2, geom.SampleRate, cfg.Amplitude)
		env1 := NewEnvelope(osc1, geom.SampleRate, cfg.Attack, cfg.Decay, cfg.Sustain, cfg.Release, 1.0, true)
		env2 := NewEnvelope(osc2, geom.SampleRate, cfg.Attack, cfg.Decay, cfg.Sustain, cfg.Release, 1.0, true)
		return StereoPair(env1, env2)
	}

	newNotes := func(repeat bool) NoteFactory {
		i := 0
		return func() (FrameProducer, bool) {
			if len(cfg.Notes) == 0 {
				return nil, false
			}
			if !repeat && i >= len(cfg.Notes) {
				return nil, false
			}
			n := cfg.Notes[i%len(cfg.Notes)]
			i++
			return buildNote(n), true
		}
	}

	return NewGenerator(geom, name, total, newNotes)
}
