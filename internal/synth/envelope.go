package synth

import "time"

// Envelope wraps a Producer with a four-stage attack/decay/sustain/release
// amplitude curve, the Go-native replacement for synthplayer.EnvelopeFilter
// used by every synthesized cue in synthsamples.py. Sustain here is a
// fixed duration at sustainLevel (not "hold until note-off"), matching the
// original's fire-and-forget cues.
type Envelope struct {
	source Producer

	attackFrames, decayFrames, sustainFrames, releaseFrames int
	sustainLevel                                            float64
	stopAtEnd                                                bool

	n int
}

// NewEnvelope builds an envelope over source, running at sampleRate
// frames/sec. attack/decay/sustain/release are stage durations; sustainLevel
// is the gain held during the sustain stage (attack ramps from 0 up to 1,
// decay from 1 down to sustainLevel, release from sustainLevel down to 0).
// When stopAtEnd is true, Next reports exhaustion once
// the release stage completes; otherwise it keeps yielding silence
// forever.
func NewEnvelope(source Producer, sampleRate int, attack, decay, sustain, release time.Duration, sustainLevel float64, stopAtEnd bool) *Envelope {
	toFrames := func(d time.Duration) int {
		n := int(d.Seconds()*float64(sampleRate) + 0.5)
		if n < 0 {
			n = 0
		}
		return n
	}
	return &Envelope{
		source:        source,
		attackFrames:  toFrames(attack),
		decayFrames:   toFrames(decay),
		sustainFrames: toFrames(sustain),
		releaseFrames: toFrames(release),
		sustainLevel:  sustainLevel,
		stopAtEnd:     stopAtEnd,
	}
}

var _ Producer = (*Envelope)(nil)

// Next implements Producer.
func (e *Envelope) Next() (float64, bool) {
	total := e.attackFrames + e.decayFrames + e.sustainFrames + e.releaseFrames
	if e.n >= total {
		if e.stopAtEnd {
			return 0, false
		}
		e.source.Next() // keep draining source for consistency, ignore value
		return 0, true
	}

	v, ok := e.source.Next()
	if !ok {
		if e.stopAtEnd {
			return 0, false
		}
		v = 0
	}

	gain := e.gainAt(e.n)
	e.n++
	return v * gain, true
}

// gainAt returns the envelope multiplier at frame index n.
func (e *Envelope) gainAt(n int) float64 {
	if n < e.attackFrames {
		if e.attackFrames == 0 {
			return 1
		}
		return float64(n) / float64(e.attackFrames)
	}
	n -= e.attackFrames

	if n < e.decayFrames {
		if e.decayFrames == 0 {
			return e.sustainLevel
		}
		frac := float64(n) / float64(e.decayFrames)
		return 1 - (1-e.sustainLevel)*frac
	}
	n -= e.decayFrames

	if n < e.sustainFrames {
		return e.sustainLevel
	}
	n -= e.sustainFrames

	if n < e.releaseFrames {
		if e.releaseFrames == 0 {
			return 0
		}
		frac := float64(n) / float64(e.releaseFrames)
		return e.sustainLevel * (1 - frac)
	}
	return 0
}
