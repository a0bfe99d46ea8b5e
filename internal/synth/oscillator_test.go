package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTriangleStaysWithinUnitAmplitude(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		freq := rapid.Float64Range(20, 20000).Draw(t, "freq")
		osc := NewTriangle(freq, 44100, 1.0)
		for i := 0; i < 200; i++ {
			v, ok := osc.Next()
			assert.True(t, ok)
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	})
}

func TestSineStaysWithinAmplitudePlusBias(t *testing.T) {
	osc := NewSineBias(440, 44100, 0.5, 0.5, nil)
	for i := 0; i < 1000; i++ {
		v, ok := osc.Next()
		assert.True(t, ok)
		assert.GreaterOrEqual(t, v, -0.000001)
		assert.LessOrEqual(t, v, 1.000001)
	}
}

func TestTriangleFMWithNegativePhaseDeltaStillWraps(t *testing.T) {
	// A Linear FM ramp driving frequency steeply negative must not break
	// phase wrap-around (regression: naive `if phase >= 1` / int-truncation
	// wrapping fails once phase deltas go negative).
	lfo := NewLinear(0, -1.0)
	osc := NewTriangleFM(100, 44100, 1.0, lfo)
	for i := 0; i < 500; i++ {
		v, ok := osc.Next()
		assert.True(t, ok)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestWhiteNoiseStaysWithinAmplitude(t *testing.T) {
	osc := NewWhiteNoise(0.7)
	for i := 0; i < 1000; i++ {
		v, ok := osc.Next()
		assert.True(t, ok)
		assert.GreaterOrEqual(t, v, -0.7)
		assert.LessOrEqual(t, v, 0.7)
	}
}

func TestSquareHTogglesAtDuty(t *testing.T) {
	osc := NewSquareH(10, 100, 0.5, 1.0, 0.0) // 10 samples per cycle, 5 high
	var high, low int
	for i := 0; i < 10; i++ {
		v, _ := osc.Next()
		if v > 0 {
			high++
		} else {
			low++
		}
	}
	assert.Equal(t, 5, high)
	assert.Equal(t, 5, low)
}

func TestLinearAdvancesByStep(t *testing.T) {
	l := NewLinear(1.0, 0.5)
	v1, _ := l.Next()
	v2, _ := l.Next()
	v3, _ := l.Next()
	assert.Equal(t, 1.0, v1)
	assert.Equal(t, 1.5, v2)
	assert.Equal(t, 2.0, v3)
}
