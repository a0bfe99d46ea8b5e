package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type constProducer float64

func (c constProducer) Next() (float64, bool) { return float64(c), true }

func TestEnvelopeRampsThroughStages(t *testing.T) {
	const rate = 100
	env := NewEnvelope(constProducer(1.0), rate, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond, 0.5, true)

	// attack: 1 frame at rate=100, 10ms -> 1 frame. gain should start at 0.
	v, ok := env.Next()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestEnvelopeStopsAtEndWhenConfigured(t *testing.T) {
	env := NewEnvelope(constProducer(1.0), 100, time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond, 1.0, true)
	total := env.attackFrames + env.decayFrames + env.sustainFrames + env.releaseFrames
	for i := 0; i < total; i++ {
		_, ok := env.Next()
		assert.True(t, ok, "frame %d should still be producing", i)
	}
	_, ok := env.Next()
	assert.False(t, ok, "envelope must exhaust once all stages complete")
}

func TestEnvelopeNeverEndsWhenStopAtEndFalse(t *testing.T) {
	env := NewEnvelope(constProducer(1.0), 100, time.Millisecond, 0, 0, 0, 1.0, false)
	total := env.attackFrames + env.decayFrames + env.sustainFrames + env.releaseFrames
	for i := 0; i < total+50; i++ {
		_, ok := env.Next()
		assert.True(t, ok)
	}
}

func TestEnvelopeZeroDurationStagesDoNotPanic(t *testing.T) {
	env := NewEnvelope(constProducer(1.0), 100, 0, 0, 0, 0, 0.5, true)
	_, ok := env.Next()
	assert.False(t, ok, "an envelope with every stage zero-length has nothing to emit")
}

func TestEnvelopeSustainHoldsLevel(t *testing.T) {
	env := NewEnvelope(constProducer(1.0), 100, 0, 0, 50*time.Millisecond, 0, 0.3, true)
	v, ok := env.Next()
	assert.True(t, ok)
	assert.InDelta(t, 0.3, v, 1e-9)
}
