package driver

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/voice"
)

// Factory builds a Driver for the given geometry and mixer. It returns an
// error if the backend it wraps is unavailable in the current
// environment (no audio device, no network reachable, etc.) — that is
// not fatal to Open, just disqualifying for this one factory.
type Factory func(geom geometry.Geometry, mx *voice.Mixer, logger *log.Logger) (Driver, error)

type registration struct {
	name     string
	priority int
	build    Factory
}

var (
	registryMu    sync.Mutex
	registrations []registration
)

// Register adds a named driver factory at the given priority. Higher
// priority values are preferred by Open when no explicit preference
// names them. Registering the same name twice replaces the earlier
// entry. Safe for concurrent use; typically called from package init
// functions of driver backends.
func Register(name string, priority int, build Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for i, r := range registrations {
		if r.name == name {
			registrations[i] = registration{name, priority, build}
			return
		}
	}
	registrations = append(registrations, registration{name, priority, build})
}

// Open builds a driver by trying, in order: each name in preference (in
// the order given, regardless of registered priority — an explicit
// preference always wins), then every other registered driver in
// descending priority order, then the dummy driver if allowDummy is
// true. It returns the first one to build successfully. ErrDriverUnavailable
// if nothing could be built.
func Open(geom geometry.Geometry, mx *voice.Mixer, logger *log.Logger, preference []string, allowDummy bool) (Driver, error) {
	registryMu.Lock()
	byName := make(map[string]registration, len(registrations))
	ordered := make([]registration, len(registrations))
	copy(ordered, registrations)
	for _, r := range registrations {
		byName[r.name] = r
	}
	registryMu.Unlock()

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].priority > ordered[j].priority
	})

	tried := make(map[string]bool)

	for _, name := range preference {
		r, ok := byName[name]
		if !ok {
			continue
		}
		tried[name] = true
		if d, err := r.build(geom, mx, logger); err == nil {
			return d, nil
		} else if logger != nil {
			logger.Warn("driver unavailable", "driver", name, "err", err)
		}
	}

	for _, r := range ordered {
		if tried[r.name] {
			continue
		}
		if d, err := r.build(geom, mx, logger); err == nil {
			return d, nil
		} else if logger != nil {
			logger.Warn("driver unavailable", "driver", r.name, "err", err)
		}
	}

	if allowDummy {
		return NewDummy(mx), nil
	}
	return nil, ErrDriverUnavailable
}
