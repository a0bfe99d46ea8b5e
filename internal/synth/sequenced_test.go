package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/soundmix/internal/geometry"
)

func TestSequencedPlaysEachNoteOnceWithoutRepeat(t *testing.T) {
	geom := geometry.Geometry{SampleRate: 1000, SampleWidth: 2, Channels: 2}
	cfg := SequencedConfig{
		Notes:     []Note{{0, 0}, {1, 1}},
		FreqTable: []float64{220, 440},
		Attack:    time.Millisecond,
		Decay:     time.Millisecond,
		Sustain:   2 * time.Millisecond,
		Release:   time.Millisecond,
		Amplitude: 1.0,
	}
	gen := NewSequenced(geom, "music", cfg)

	it := gen.Chunks(geom.FrameBytes(), false, nil)
	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
		if count > 1000 {
			t.Fatal("non-repeating sequence must terminate")
		}
	}
	assert.Greater(t, count, 0)
}

func TestSequencedRepeatsWhenRequested(t *testing.T) {
	geom := geometry.Geometry{SampleRate: 1000, SampleWidth: 2, Channels: 2}
	cfg := SequencedConfig{
		Notes:     []Note{{0, 0}},
		FreqTable: []float64{220},
		Attack:    time.Millisecond,
		Decay:     0,
		Sustain:   time.Millisecond,
		Release:   0,
		Amplitude: 1.0,
	}
	gen := NewSequenced(geom, "music", cfg)

	calls := 0
	stop := func() bool {
		calls++
		return calls > 20
	}
	it := gen.Chunks(geom.FrameBytes(), true, stop)
	produced := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		produced++
	}
	require.Greater(t, produced, 0)
}
