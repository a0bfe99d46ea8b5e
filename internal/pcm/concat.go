package pcm

import (
	"github.com/doismellburning/soundmix/internal/geometry"
)

// Join appends the PCM of each sample in order onto a single buffer and
// returns the result as an ordinary Stored sample, matching the way
// "extra life"-style multi-tone cues are assembled from a sequence of
// individually-synthesized notes (spec section 3, Concatenated variant).
// Each input must already share geom; Join does not resample or duplicate
// channels itself.
func Join(geom geometry.Geometry, name string, parts ...*Stored) (*Stored, error) {
	total := 0
	for _, p := range parts {
		total += len(p.data)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p.data...)
	}
	return NewStored(geom, name, buf, geom.Channels)
}
