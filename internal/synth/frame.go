package synth

// Frame is one stereo sample pair scaled to [-1, +1], before integer
// quantization.
type Frame struct {
	Left, Right float64
}

// FrameProducer yields stereo frames until exhausted.
type FrameProducer interface {
	Next() (Frame, bool)
}

// Mono tees a single mono Producer to both channels, per spec section 4.2:
// "mono producers may be tee'd to stereo by channel duplication."
type monoTee struct{ p Producer }

// Mono wraps a mono Producer as a FrameProducer by duplicating its output
// to both channels.
func Mono(p Producer) FrameProducer { return monoTee{p} }

func (m monoTee) Next() (Frame, bool) {
	v, ok := m.p.Next()
	if !ok {
		return Frame{}, false
	}
	return Frame{Left: v, Right: v}, true
}

// stereoPair interleaves two independent mono producers into distinct
// channels, per spec section 4.2: "stereo mixdowns of two producers use
// per-channel interleaving and saturating addition." Grounded on
// TitleMusic.chunked_frame_data panning one oscillator per channel.
type stereoPair struct{ left, right Producer }

// StereoPair pans left into the left channel and right into the right
// channel. It ends as soon as either side is exhausted.
func StereoPair(left, right Producer) FrameProducer { return stereoPair{left, right} }

func (s stereoPair) Next() (Frame, bool) {
	l, lok := s.left.Next()
	r, rok := s.right.Next()
	if !lok || !rok {
		return Frame{}, false
	}
	return Frame{Left: l, Right: r}, true
}

// Mix sums two mono producers into one (used to combine layered oscillators
// before tee-ing to stereo, e.g. VoodooExplosion's two envelope-filtered
// layers combined via synthplayer.MixingFilter).
func Mix(a, b Producer) Producer {
	return ProducerFunc(func() (float64, bool) {
		av, aok := a.Next()
		bv, bok := b.Next()
		if !aok && !bok {
			return 0, false
		}
		return av + bv, true
	})
}

// AmplitudeModulate multiplies carrier by modulator sample-by-sample,
// the Go-native replacement for synthplayer.AmpModulationFilter (used by
// GameOver's tremolo effect).
func AmplitudeModulate(carrier, modulator Producer) Producer {
	return ProducerFunc(func() (float64, bool) {
		c, ok := carrier.Next()
		if !ok {
			return 0, false
		}
		m, _ := modulator.Next()
		return c * m, true
	})
}
