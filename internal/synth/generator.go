// Package synth implements the generator-synthesized sample variant:
// oscillator + envelope primitives composed into a lazy chunked PCM
// producer, grounded on bouldercaves/synthsamples.py.
package synth

import (
	"math"
	"time"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
)

// NoteFactory produces the next note's FrameProducer in a sequence, or
// ok=false when the sequence has no more notes (a non-repeating sequence
// reaching its end). It is rebuilt fresh for every Chunks call.
type NoteFactory func() (note FrameProducer, ok bool)

// Generator is a sample whose PCM is synthesized on demand from a sequence
// of notes, each a FrameProducer built by a NoteFactory. It implements
// spec section 4.2: frames are scaled/clipped to the configured sample
// width, chunks are emitted as soon as chunkSize bytes accumulate, and a
// final short chunk carries any remainder.
type Generator struct {
	name     string
	geom     geometry.Geometry
	duration time.Duration
	newNotes func(repeat bool) NoteFactory
}

var _ sample.Chunker = (*Generator)(nil)

// NewGenerator builds a Generator. newNotes constructs a fresh NoteFactory
// each time Chunks is called, parameterized by the repeat flag Chunks was
// given.
func NewGenerator(geom geometry.Geometry, name string, duration time.Duration, newNotes func(repeat bool) NoteFactory) *Generator {
	return &Generator{name: name, geom: geom, duration: duration, newNotes: newNotes}
}

// Name implements sample.Chunker.
func (g *Generator) Name() string { return g.name }

// Duration implements sample.Chunker.
func (g *Generator) Duration() time.Duration { return g.duration }

// Chunks implements sample.Chunker.
func (g *Generator) Chunks(chunkSize int, repeat bool, stop func() bool) sample.Iterator {
	notes := g.newNotes(repeat)
	scale := float64(int64(1)<<(8*uint(g.geom.SampleWidth)-1) - 1)

	var buf []byte
	var current FrameProducer
	done := false

	appendFrame := func(fr Frame) {
		buf = append(buf, Quantize(fr.Left, scale, g.geom.SampleWidth)...)
		if g.geom.Channels == 2 {
			buf = append(buf, Quantize(fr.Right, scale, g.geom.SampleWidth)...)
		}
	}

	fill := func() {
		for len(buf) < chunkSize && !done {
			if current == nil {
				if stop != nil && stop() {
					done = true
					return
				}
				var ok bool
				current, ok = notes()
				if !ok {
					done = true
					return
				}
			}
			fr, ok := current.Next()
			if !ok {
				current = nil
				continue
			}
			appendFrame(fr)
		}
	}

	return sample.IteratorFunc(func() ([]byte, bool) {
		if stop != nil && stop() {
			return nil, false
		}
		fill()
		switch {
		case len(buf) >= chunkSize:
			chunk := buf[:chunkSize]
			buf = buf[chunkSize:]
			return chunk, true
		case done && len(buf) > 0:
			chunk := buf
			buf = nil
			return chunk, true
		case done:
			return nil, false
		default:
			// fill() returns only with a full chunk buffered or with done
			// set (a stop() firing mid-fill also sets done), so this branch
			// is a guard that is not reached in practice.
			if len(buf) > 0 {
				chunk := buf
				buf = nil
				return chunk, true
			}
			return nil, false
		}
	})
}

// Quantize scales a float64 in [-1,1] to a little-endian signed integer of
// the configured width, clipping to the representable range.
func Quantize(v float64, scale float64, width int) []byte {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	iv := int64(math.Round(v * scale))
	out := make([]byte, width)
	u := uint64(iv)
	for i := 0; i < width; i++ {
		out[i] = byte(u >> (8 * i))
	}
	return out
}
