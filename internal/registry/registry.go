// Package registry implements the process-wide name→sample mapping spec
// section 4.6 describes: a descriptor set is resolved once at init time
// into constructed samples, and subsequent play requests look a name up
// here rather than carrying a Sample value around.
package registry

import (
	"fmt"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
)

// Source is either a pre-built Sample (the synthesized case) or a
// Builder that constructs one against the process's configured
// geometry (also the synthesized case, deferred) or resolves an opaque
// asset id (the PCM case). Exactly one of Sample or Builder should be
// set; Builder takes precedence if both are.
type Source struct {
	// Sample is a pre-built Chunker, used as-is.
	Sample sample.Chunker
	// Builder constructs a Chunker against geom at Init time. Used for
	// synthesized cues and for PCM assets resolved by a loader id closed
	// over in the builder function.
	Builder func(geom geometry.Geometry) (sample.Chunker, error)
}

// Descriptor is one entry in the set passed to Init: a sound name, its
// source, and the per-name simultaneous-voice limit to push into the
// mixer.
type Descriptor struct {
	Name            string
	Source          Source
	MaxSimultaneous int
}

// Registry is the constructed name→sample mapping. It is built once by
// Init and is read-only thereafter; it does not itself hold any mixer
// state.
type Registry struct {
	geom    geometry.Geometry
	samples map[string]sample.Chunker
	limits  map[string]int
}

// Build constructs a Registry from descriptors against geom. Each
// descriptor is resolved exactly once; a descriptor whose Builder
// returns an error fails the whole build, since a missing sound at
// startup is a programmer error per spec section 4.6.
func Build(geom geometry.Geometry, descriptors []Descriptor) (*Registry, error) {
	r := &Registry{
		geom:    geom,
		samples: make(map[string]sample.Chunker, len(descriptors)),
		limits:  make(map[string]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("registry: descriptor with empty name")
		}
		var s sample.Chunker
		switch {
		case d.Source.Builder != nil:
			built, err := d.Source.Builder(geom)
			if err != nil {
				return nil, fmt.Errorf("registry: build %q: %w", d.Name, err)
			}
			s = built
		case d.Source.Sample != nil:
			s = d.Source.Sample
		default:
			return nil, fmt.Errorf("registry: descriptor %q has neither Sample nor Builder", d.Name)
		}
		r.samples[d.Name] = s
		if d.MaxSimultaneous > 0 {
			r.limits[d.Name] = d.MaxSimultaneous
		}
	}
	return r, nil
}

// Lookup returns the sample registered under name, and whether it was
// found. A missing name is a programmer error in the caller per spec
// section 4.6; Lookup itself stays non-fatal so the caller can decide how
// loudly to fail.
func (r *Registry) Lookup(name string) (sample.Chunker, bool) {
	s, ok := r.samples[name]
	return s, ok
}

// Limits returns the per-name simultaneous-voice limits to push into the
// mixer via SetLimit, for every descriptor that specified one.
func (r *Registry) Limits() map[string]int {
	out := make(map[string]int, len(r.limits))
	for k, v := range r.limits {
		out[k] = v
	}
	return out
}

// Names returns every registered sound name, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.samples))
	for name := range r.samples {
		names = append(names, name)
	}
	return names
}
