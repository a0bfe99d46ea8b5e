// Package voice implements the mixer: the concurrency-safe multiplexer
// that turns a set of admitted voices (active sample playbacks) into a
// single chunked PCM stream, enforcing admission control along the way.
package voice

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
)

// DefaultPerNameLimit is the per-name polyphony cap applied when no
// explicit limit has been set for a name, per spec section 4.3.
const DefaultPerNameLimit = 4

// GlobalPolyphonyCap is the maximum number of simultaneously active
// voices across all names, per spec section 4.3. It is not configurable:
// spec.md only exposes a mechanism to set per-name limits.
const GlobalPolyphonyCap = 8

// ErrContractViolation is returned by NextChunk when a sample yielded a
// chunk longer than the mixer's chunk size — a fatal, unrecoverable
// condition per spec section 7.
var ErrContractViolation = errors.New("voice: sample yielded a chunk longer than the mixer chunk size")

type entry struct {
	name string
	iter sample.Iterator
}

// Mixer multiplexes active voices into a single C-byte chunk stream. It is
// safe for concurrent use: a control goroutine may call Add/Remove/
// RemoveByName/ClearAll/SetLimit at any time while a driver goroutine calls
// NextChunk in a loop.
type Mixer struct {
	geom      geometry.Geometry
	chunkSize int
	logger    *log.Logger

	mu           sync.Mutex
	voices       map[int]entry
	perNameCount map[string]int
	perNameLimit map[string]int
	total        int
	nextID       int
}

// New builds a Mixer for the given geometry and fixed chunk size C. logger
// may be nil, in which case the mixer logs nothing.
func New(geom geometry.Geometry, chunkSize int, logger *log.Logger) *Mixer {
	return &Mixer{
		geom:         geom,
		chunkSize:    chunkSize,
		logger:       logger,
		voices:       make(map[int]entry),
		perNameCount: make(map[string]int),
		perNameLimit: make(map[string]int),
	}
}

// ChunkSize returns the fixed chunk size C this mixer produces.
func (m *Mixer) ChunkSize() int { return m.chunkSize }

// limitFor returns the effective per-name cap, defaulting per spec.
func (m *Mixer) limitFor(name string) int {
	if n, ok := m.perNameLimit[name]; ok {
		return n
	}
	return DefaultPerNameLimit
}

// Add attempts to admit a new voice playing sample s. It returns the new
// voice's id and true on success, or (0, false) if admission was rejected
// by the repeat-exclusivity rule, the per-name limit, or the global
// polyphony cap. Rejection is silent, per spec section 4.3/4.7 — callers
// treat it as routine.
func (m *Mixer) Add(s sample.Chunker, repeat bool) (int, bool) {
	m.mu.Lock()
	if !m.admissibleLocked(s.Name(), repeat) {
		m.mu.Unlock()
		return 0, false
	}
	m.nextID++
	id := m.nextID
	m.mu.Unlock()

	if !m.admitWithID(id, s, repeat) {
		return 0, false
	}
	return id, true
}

// AddWithID admits a voice under a caller-supplied id instead of one drawn
// from the mixer's own counter. This is what lets a push driver hand a
// tentative id back to its caller at enqueue time and have the mixer
// "reuse" that exact id once the command is actually applied (spec
// section 4.5). It returns false if admission was rejected; the id never
// becomes active and a later Remove(id) on it is simply a no-op.
func (m *Mixer) AddWithID(id int, s sample.Chunker, repeat bool) bool {
	m.mu.Lock()
	if !m.admissibleLocked(s.Name(), repeat) {
		m.mu.Unlock()
		return false
	}
	m.mu.Unlock()
	return m.admitWithID(id, s, repeat)
}

// admissibleLocked runs the admission test from spec section 4.3. The
// caller must hold mu.
func (m *Mixer) admissibleLocked(name string, repeat bool) bool {
	if repeat && m.perNameCount[name] >= 1 {
		m.debugf("admission rejected: %q already has a repeating voice", name)
		return false
	}
	if m.perNameCount[name] >= m.limitFor(name) {
		m.debugf("admission rejected: %q at its per-name limit", name)
		return false
	}
	if m.total >= GlobalPolyphonyCap {
		m.debugf("admission rejected: global polyphony cap reached")
		return false
	}
	return true
}

// admitWithID re-checks admission (the check above is advisory for the
// caller-visible return value; the authoritative check happens here,
// atomically with insertion) and, if still admissible, constructs the
// sample's iterator and inserts the voice.
func (m *Mixer) admitWithID(id int, s sample.Chunker, repeat bool) bool {
	name := s.Name()

	// Constructing the iterator happens outside the lock since Chunks()
	// may do real work (e.g. build a synthesizer graph) and must never
	// block admission or removal of other voices.
	iter := s.Chunks(m.chunkSize, repeat, func() bool { return false })

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.admissibleLocked(name, repeat) {
		return false
	}
	m.voices[id] = entry{name: name, iter: iter}
	m.perNameCount[name]++
	m.total++
	return true
}

// Remove stops the voice with the given id. It is idempotent: removing an
// absent or already-removed id is a no-op.
func (m *Mixer) Remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(id)
}

// removeLocked removes id from the voice table; the caller must hold mu.
func (m *Mixer) removeLocked(id int) {
	v, ok := m.voices[id]
	if !ok {
		return
	}
	delete(m.voices, id)
	m.perNameCount[v.name]--
	if m.perNameCount[v.name] <= 0 {
		delete(m.perNameCount, v.name)
	}
	m.total--
}

// RemoveByName stops every voice currently playing the given name. It
// snapshots the matching ids under the mutex first, so a concurrent Add is
// never spuriously removed (spec section 4.3).
func (m *Mixer) RemoveByName(name string) {
	m.mu.Lock()
	var ids []int
	for id, v := range m.voices {
		if v.name == name {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Remove(id)
	}
}

// ClearAll stops every active voice and resets counts. Per-name limits set
// via SetLimit are retained.
func (m *Mixer) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voices = make(map[int]entry)
	m.perNameCount = make(map[string]int)
	m.total = 0
}

// SetLimit sets the per-name polyphony cap for subsequent admissions of
// name. It does not affect already-admitted voices.
func (m *Mixer) SetLimit(name string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perNameLimit[name] = n
}

// ActiveCount returns the number of currently active voices, for tests and
// diagnostics.
func (m *Mixer) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// NextChunk produces exactly ChunkSize bytes: the saturating mix of every
// active voice's next chunk. Exhausted voices are removed no later than
// the call in which their iterator reports exhaustion. Returns
// ErrContractViolation if any sample violated the chunk-size contract —
// a fatal condition per spec section 7.
func (m *Mixer) NextChunk() ([]byte, error) {
	m.mu.Lock()
	snapshot := make([]struct {
		id   int
		iter sample.Iterator
	}, 0, len(m.voices))
	for id, v := range m.voices {
		snapshot = append(snapshot, struct {
			id   int
			iter sample.Iterator
		}{id, v.iter})
	}
	m.mu.Unlock()

	var out []byte
	var toRemove []int
	width := m.geom.SampleWidth

	for _, v := range snapshot {
		chunk, ok := v.iter.Next()
		if !ok {
			toRemove = append(toRemove, v.id)
			continue
		}
		if len(chunk) > m.chunkSize {
			return nil, fmt.Errorf("%w: got %d bytes, want at most %d", ErrContractViolation, len(chunk), m.chunkSize)
		}
		padded := chunk
		if len(chunk) < m.chunkSize {
			padded = make([]byte, m.chunkSize)
			copy(padded, chunk)
		}
		if out == nil {
			out = make([]byte, m.chunkSize)
			copy(out, padded)
		} else {
			geometry.MixInto(out, padded, width)
		}
	}

	if len(toRemove) > 0 {
		m.mu.Lock()
		for _, id := range toRemove {
			m.removeLocked(id)
		}
		m.mu.Unlock()
	}

	if out == nil {
		return make([]byte, m.chunkSize), nil
	}
	return out, nil
}

func (m *Mixer) debugf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(fmt.Sprintf(format, args...))
	}
}
