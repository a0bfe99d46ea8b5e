// Package sample defines the source-side contract that every sound source
// (stored PCM, generator-synthesized, concatenated) implements, and that
// the mixer consumes without ever distinguishing between variants.
package sample

import "time"

// Iterator yields successive chunks of PCM for one playback of a Sample.
// Each Sample instance may be played concurrently multiple times; every
// call to Chunks returns an independent Iterator with its own cursor.
type Iterator interface {
	// Next returns the next chunk (at most chunkSize bytes) and true, or
	// nil and false once the sequence has ended. A non-repeating
	// iterator ends after its data is exhausted; a repeating one only
	// ends when the stop predicate fires.
	Next() ([]byte, bool)
}

// Chunker is the capability every Sample exposes: given a chunk size, a
// repeat flag, and a stop predicate, produce a fresh lazy sequence of PCM
// chunks.
type Chunker interface {
	// Name is the non-unique label used for per-name limits and
	// name-based stop.
	Name() string

	// Duration is informational, in seconds-equivalent form.
	Duration() time.Duration

	// Chunks constructs a fresh Iterator. repeat=false yields a finite
	// sequence; repeat=true yields an unbounded one that only stops when
	// stop() returns true. Every chunk is at most chunkSize bytes; only
	// a final one-shot chunk may be shorter.
	Chunks(chunkSize int, repeat bool, stop func() bool) Iterator
}

// IteratorFunc adapts a plain function to the Iterator interface.
type IteratorFunc func() ([]byte, bool)

// Next implements Iterator.
func (f IteratorFunc) Next() ([]byte, bool) { return f() }
