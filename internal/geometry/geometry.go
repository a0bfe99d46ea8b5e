// Package geometry defines the fixed frame/chunk layout shared by every
// sample source, the mixer, and the output drivers for the lifetime of a
// running mixer instance.
package geometry

import (
	"fmt"
	"time"
)

// Geometry is the process-wide PCM layout: sample rate, bytes per channel
// per frame, and channel count. It never changes once a mixer is built.
type Geometry struct {
	SampleRate  int // Hz
	SampleWidth int // bytes per channel per frame: 1, 2, 3, or 4
	Channels    int // 1 (mono) or 2 (stereo)
}

// Validate rejects geometries the mixer and samples can't agree on.
func (g Geometry) Validate() error {
	switch g.SampleWidth {
	case 1, 2, 3, 4:
	default:
		return fmt.Errorf("geometry: invalid sample width %d (must be 1, 2, 3, or 4)", g.SampleWidth)
	}
	if g.Channels != 1 && g.Channels != 2 {
		return fmt.Errorf("geometry: invalid channel count %d (must be 1 or 2)", g.Channels)
	}
	if g.SampleRate <= 0 {
		return fmt.Errorf("geometry: invalid sample rate %d", g.SampleRate)
	}
	return nil
}

// FrameBytes is the number of bytes in one frame: channels * sample width.
func (g Geometry) FrameBytes() int {
	return g.Channels * g.SampleWidth
}

// ChunkBytes rounds the given duration to the nearest whole number of
// frames (at least one) and returns the resulting chunk size C in bytes,
// per spec: "a typical choice
// is sample_rate * frame_bytes * chunk_duration".
func (g Geometry) ChunkBytes(d time.Duration) int {
	frames := int(float64(g.SampleRate)*d.Seconds() + 0.5)
	if frames <= 0 {
		frames = 1
	}
	return frames * g.FrameBytes()
}

// FrameAligned reports whether n is a whole multiple of the frame size.
func (g Geometry) FrameAligned(n int) bool {
	fb := g.FrameBytes()
	return fb > 0 && n%fb == 0
}
