// Package soundmix is the public facade over the mixer, driver, and
// registry packages: Init builds a Handle from a descriptor set and a
// driver preference list, and the Handle's methods are the only API most
// callers need — play, stop, silence, set limits, shut down.
package soundmix

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/doismellburning/soundmix/internal/driver"
	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/registry"
	"github.com/doismellburning/soundmix/internal/voice"
)

// defaultChunkDuration is the chunk length Init uses when Options.ChunkSize
// is left at zero — 20ms, a common low-latency audio buffer size.
const defaultChunkDuration = 20 * time.Millisecond

// Descriptor is re-exported from internal/registry so callers never need
// to import an internal package to build an Init call.
type Descriptor = registry.Descriptor

// Source is re-exported from internal/registry.
type Source = registry.Source

// Options configures Init beyond the geometry and descriptor set.
type Options struct {
	// ChunkSize is the fixed byte size C the mixer produces per chunk. If
	// zero, it defaults to 20ms of audio at the given geometry.
	ChunkSize int
	// DriverPreference is tried, in order, before falling back through
	// registered drivers by priority.
	DriverPreference []string
	// AllowDummyDriver permits falling back to the dummy driver (which
	// discards output) if nothing else could be opened. Demos and tests
	// typically want this true; a production audio path usually wants it
	// false so driver unavailability is a fatal, loud error.
	AllowDummyDriver bool
	// Logger receives mixer/driver diagnostics. Nil disables logging.
	Logger *log.Logger
}

// Handle is a fully initialized soundmix instance: a mixer, a registry of
// playable names, and an output driver pulling or pushing chunks from the
// mixer. All methods are safe for concurrent use.
type Handle struct {
	geom     geometry.Geometry
	mixer    *voice.Mixer
	registry *registry.Registry
	drv      driver.Driver
	logger   *log.Logger

	mu         sync.Mutex
	nextPushID int
	isPush     bool
}

// Init constructs a Handle: builds the sample registry from descriptors,
// creates the mixer at geom with the configured (or default) chunk size,
// pushes every descriptor's per-name limit into the mixer, and opens an
// output driver per opts.DriverPreference. Missing names are caught at
// PlaySample time, not here — Init only constructs what descriptors
// supply.
func Init(geom geometry.Geometry, descriptors []Descriptor, opts Options) (*Handle, error) {
	if err := geom.Validate(); err != nil {
		return nil, fmt.Errorf("soundmix: invalid geometry: %w", err)
	}

	reg, err := registry.Build(geom, descriptors)
	if err != nil {
		return nil, fmt.Errorf("soundmix: build registry: %w", err)
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = geom.ChunkBytes(defaultChunkDuration)
	}

	mx := voice.New(geom, chunkSize, opts.Logger)
	for name, limit := range reg.Limits() {
		mx.SetLimit(name, limit)
	}

	drv, err := driver.Open(geom, mx, opts.Logger, opts.DriverPreference, opts.AllowDummyDriver)
	if err != nil {
		return nil, fmt.Errorf("soundmix: open driver: %w", err)
	}

	_, isPush := drv.(interface{ IsPush() bool })

	return &Handle{
		geom:     geom,
		mixer:    mx,
		registry: reg,
		drv:      drv,
		logger:   opts.Logger,
		isPush:   isPush,
	}, nil
}

// PlaySample looks name up in the registry and admits a voice playing it.
// It returns the new voice's id and true on success; (0, false) if
// admission was rejected (repeat exclusivity, per-name limit, or global
// polyphony cap) or if name is not registered — a programmer error the
// caller should have caught earlier, per spec section 4.6, so this is
// logged at error level rather than returned as a typed error.
//
// With a push driver, admission happens later on the driver goroutine:
// PlaySample returns a tentative id and true as soon as the play command
// is queued, and an id that admission then rejects never becomes active.
// In that case false means only that name is unregistered or the mailbox
// was full.
func (h *Handle) PlaySample(name string, repeat bool) (int, bool) {
	s, ok := h.registry.Lookup(name)
	if !ok {
		if h.logger != nil {
			h.logger.Error("play requested for unregistered sample", "name", name)
		}
		return 0, false
	}

	if !h.isPush {
		return h.mixer.Add(s, repeat)
	}

	// Push drivers need a tentative id handed back immediately, since
	// admission itself happens asynchronously once the driver goroutine
	// drains the mailbox (spec section 4.5).
	h.mu.Lock()
	h.nextPushID++
	id := h.nextPushID
	h.mu.Unlock()

	err := h.drv.Submit(driver.Command{Kind: driver.CmdPlay, ID: id, Sample: s, Repeat: repeat})
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("play command dropped", "name", name, "err", err)
		}
		return 0, false
	}
	return id, true
}

// Stop stops the voice with the given id. No-op if the id is absent,
// already stopped, or was never admitted (a rejected tentative id).
func (h *Handle) Stop(id int) {
	if !h.isPush {
		h.mixer.Remove(id)
		return
	}
	_ = h.drv.Submit(driver.Command{Kind: driver.CmdStopID, ID: id})
}

// StopByName stops every active voice currently playing name.
func (h *Handle) StopByName(name string) {
	if !h.isPush {
		h.mixer.RemoveByName(name)
		return
	}
	_ = h.drv.Submit(driver.Command{Kind: driver.CmdStopName, Name: name})
}

// Silence stops every active voice.
func (h *Handle) Silence() {
	if !h.isPush {
		h.mixer.ClearAll()
		return
	}
	_ = h.drv.Submit(driver.Command{Kind: driver.CmdSilence})
}

// SetSampleLimit sets the per-name polyphony cap for name. Applies to
// subsequent admissions only, per spec section 4.3.
func (h *Handle) SetSampleLimit(name string, n int) {
	h.mixer.SetLimit(name, n)
}

// Shutdown tears the driver down exactly once (joining a push driver's
// goroutine or closing a pull driver's stream).
func (h *Handle) Shutdown() error {
	return h.drv.Close()
}

// ActiveCount returns the number of currently active voices, for
// diagnostics and tests.
func (h *Handle) ActiveCount() int {
	return h.mixer.ActiveCount()
}
