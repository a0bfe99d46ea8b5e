package synth

import (
	"math"
	"math/rand/v2"
)

// Producer is a frame-level iterator of samples scaled to [-1, +1] — the
// contract the synthesizer layer exposes per spec section 6. Producers are
// mono; stereo is built by pairing or teeing producers (see frame.go).
type Producer interface {
	// Next returns the next sample and true, or 0 and false once the
	// producer has nothing further to contribute (e.g. an enveloped
	// oscillator past its release phase).
	Next() (float64, bool)
}

// ProducerFunc adapts a plain function to Producer.
type ProducerFunc func() (float64, bool)

// Next implements Producer.
func (f ProducerFunc) Next() (float64, bool) { return f() }

// Triangle is a direct-digital-synthesis triangle wave oscillator, the
// Go-native replacement for the external synthplayer.FastTriangle used
// throughout synthsamples.py. It never ends on its own; an Envelope wraps
// it to give it a lifetime.
type Triangle struct {
	phase      float64 // 0..1
	baseFreq   float64
	sampleRate int
	amplitude  float64
	fmLFO      Producer
}

// NewTriangle builds a triangle oscillator at the given frequency (Hz),
// amplitude in [0,1], for a producer running at sampleRate frames/sec.
func NewTriangle(freqHz float64, sampleRate int, amplitude float64) *Triangle {
	return NewTriangleFM(freqHz, sampleRate, amplitude, nil)
}

// NewTriangleFM builds a triangle oscillator with an optional
// frequency-modulation LFO, the Go-native replacement for
// synthplayer.Triangle's fm_lfo parameter (used by GameOver's falling
// pitch effect). fmLFO may be nil for no modulation.
func NewTriangleFM(freqHz float64, sampleRate int, amplitude float64, fmLFO Producer) *Triangle {
	return &Triangle{
		baseFreq:   freqHz,
		sampleRate: sampleRate,
		amplitude:  amplitude,
		fmLFO:      fmLFO,
	}
}

// Next implements Producer.
func (t *Triangle) Next() (float64, bool) {
	// Map phase in [0,1) to a triangle wave in [-1,1]: rises from -1 to 1
	// over the first half cycle, falls back over the second half.
	v := 4*t.phase - 1
	if t.phase >= 0.5 {
		v = 3 - 4*t.phase
	}
	freq := t.baseFreq
	if t.fmLFO != nil {
		if mod, ok := t.fmLFO.Next(); ok {
			freq += mod * t.baseFreq
		}
	}
	t.phase += freq / float64(t.sampleRate)
	t.phase -= math.Floor(t.phase)
	return v * t.amplitude, true
}

// Sine is a direct-digital-synthesis sine oscillator supporting an
// optional frequency-modulation LFO, the Go-native replacement for
// synthplayer.Sine (used by VoodooExplosion and Slime).
type Sine struct {
	phase      float64
	baseFreq   float64
	sampleRate int
	amplitude  float64
	bias       float64
	fmLFO      Producer
}

// NewSine builds a sine oscillator. fmLFO may be nil for no modulation;
// when present, its output (scaled to +/- baseFreq) is added to the base
// frequency each frame.
func NewSine(freqHz float64, sampleRate int, amplitude float64, fmLFO Producer) *Sine {
	return &Sine{baseFreq: freqHz, sampleRate: sampleRate, amplitude: amplitude, fmLFO: fmLFO}
}

// NewSineBias builds a sine oscillator with a DC bias added to its output,
// the Go-native replacement for synthplayer.Sine's bias parameter — used
// to build an always-positive LFO (VoodooExplosion's vibrato source).
func NewSineBias(freqHz float64, sampleRate int, amplitude, bias float64, fmLFO Producer) *Sine {
	return &Sine{baseFreq: freqHz, sampleRate: sampleRate, amplitude: amplitude, bias: bias, fmLFO: fmLFO}
}

// Next implements Producer.
func (s *Sine) Next() (float64, bool) {
	freq := s.baseFreq
	if s.fmLFO != nil {
		if mod, ok := s.fmLFO.Next(); ok {
			freq += mod * s.baseFreq
		}
	}
	v := sin2pi(s.phase)*s.amplitude + s.bias
	s.phase += freq / float64(s.sampleRate)
	s.phase -= math.Floor(s.phase)
	return v, true
}

// WhiteNoise is an amplitude-scaled uniform random producer, the Go-native
// replacement for synthplayer.WhiteNoise (used for percussive/explosion
// style cues that have no pitch).
type WhiteNoise struct {
	amplitude float64
}

// NewWhiteNoise builds a white noise producer at the given amplitude.
func NewWhiteNoise(amplitude float64) *WhiteNoise {
	return &WhiteNoise{amplitude: amplitude}
}

// Next implements Producer.
func (w *WhiteNoise) Next() (float64, bool) {
	return (rand.Float64()*2 - 1) * w.amplitude, true
}

// Linear is a linearly changing value, used to drive frequency-modulation
// LFOs (the Go-native replacement for synthplayer.Linear, used by
// GameOver's falling-pitch effect).
type Linear struct {
	value, step float64
}

// NewLinear builds a producer starting at start and changing by step each
// frame.
func NewLinear(start, step float64) *Linear {
	return &Linear{value: start, step: step}
}

// Next implements Producer.
func (l *Linear) Next() (float64, bool) {
	v := l.value
	l.value += l.step
	return v, true
}

// SquareH is a hard square wave with adjustable duty/bias, the Go-native
// replacement for synthplayer.SquareH (used by GameOver's amplitude
// modulator).
type SquareH struct {
	phase         float64
	phasePerFrame float64
	duty          float64
	amplitude     float64
	bias          float64
}

// NewSquareH builds a square wave oscillator with the given frequency,
// duty-cycle parameter (fraction of the cycle spent high), amplitude, and
// DC bias.
func NewSquareH(freqHz float64, sampleRate int, duty, amplitude, bias float64) *SquareH {
	return &SquareH{phasePerFrame: freqHz / float64(sampleRate), duty: duty, amplitude: amplitude, bias: bias}
}

// Next implements Producer.
func (s *SquareH) Next() (float64, bool) {
	v := -s.amplitude
	if s.phase < s.duty {
		v = s.amplitude
	}
	s.phase += s.phasePerFrame
	if s.phase >= 1 {
		s.phase -= 1
	}
	return v + s.bias, true
}

// sin2pi is sin(2*pi*x) for x in [0,1).
func sin2pi(x float64) float64 {
	const tau = 2 * math.Pi
	return math.Sin(x * tau)
}
