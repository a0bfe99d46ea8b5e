package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/soundmix/internal/geometry"
)

func TestDescendingSweepPlaysExactlyCountTonesThenStops(t *testing.T) {
	geom := geometry.Geometry{SampleRate: 1000, SampleWidth: 2, Channels: 1}
	cfg := SweepConfig{
		Count: 5, StartFreq: 1000, FreqStep: -10, Amplitude: 1.0,
		Attack: 0, Decay: 0, Sustain: time.Millisecond, Release: 0, SustainLevel: 1.0,
	}
	gen := NewDescendingSweep(geom, "finished", cfg)

	it := gen.Chunks(geom.FrameBytes(), true, nil) // repeat=true must not matter; sweep is finite by design
	count := 0
	for {
		_, ok := it.Next()
		if !ok {
			break
		}
		count++
		require.Less(t, count, 10000, "sweep must be finite even when repeat=true")
	}
	assert.Greater(t, count, 0)
}
