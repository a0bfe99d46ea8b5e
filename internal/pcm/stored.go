// Package pcm implements the stored-PCM sample variant: a sample backed by
// an already-decoded byte buffer, sliced (and optionally tiled for
// looping) into mixer chunks.
package pcm

import (
	"fmt"
	"time"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
)

// Stored is a sample holding a whole, frame-aligned PCM buffer. The buffer
// is shared read-only across every playback; each Chunks call gets its own
// cursor state.
type Stored struct {
	name     string
	geom     geometry.Geometry
	data     []byte
	duration time.Duration
}

var _ sample.Chunker = (*Stored)(nil)

// NewStored builds a Stored sample from a decoded PCM buffer. sourceChannels
// is the channel count the buffer was encoded with (1 or 2); if it is mono
// and geom is configured for stereo, each frame is duplicated to both
// channels. The resulting buffer must be a whole number of frames.
func NewStored(geom geometry.Geometry, name string, data []byte, sourceChannels int) (*Stored, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	switch {
	case sourceChannels == geom.Channels:
		// Used as-is below.
	case sourceChannels == 1 && geom.Channels == 2:
		if len(data)%geom.SampleWidth != 0 {
			return nil, fmt.Errorf("pcm: mono buffer for %q is not a multiple of sample width %d", name, geom.SampleWidth)
		}
		data = duplicateToStereo(data, geom.SampleWidth)
	default:
		return nil, fmt.Errorf("pcm: sample %q has %d source channels, geometry wants %d", name, sourceChannels, geom.Channels)
	}

	if !geom.FrameAligned(len(data)) {
		return nil, fmt.Errorf("pcm: sample %q buffer length %d is not a multiple of the frame size %d", name, len(data), geom.FrameBytes())
	}

	frames := len(data) / geom.FrameBytes()
	return &Stored{
		name:     name,
		geom:     geom,
		data:     data,
		duration: time.Duration(float64(frames) / float64(geom.SampleRate) * float64(time.Second)),
	}, nil
}

// duplicateToStereo replicates each per-channel sample of a mono buffer to
// both channels, frame by frame.
func duplicateToStereo(mono []byte, width int) []byte {
	frames := len(mono) / width
	stereo := make([]byte, frames*width*2)
	for f := 0; f < frames; f++ {
		src := mono[f*width : f*width+width]
		copy(stereo[f*2*width:], src)
		copy(stereo[f*2*width+width:], src)
	}
	return stereo
}

// Name implements sample.Chunker.
func (s *Stored) Name() string { return s.name }

// Duration implements sample.Chunker.
func (s *Stored) Duration() time.Duration { return s.duration }

// Chunks implements sample.Chunker. See package doc and spec section 4.1:
// repeat=false slices the buffer end to end, yielding a short final chunk
// for any remainder; repeat=true tiles the buffer so every chunkSize-byte
// slice starting anywhere in [0, len(data)) is contiguous, and wraps
// forever.
func (s *Stored) Chunks(chunkSize int, repeat bool, stop func() bool) sample.Iterator {
	if !repeat {
		cursor := 0
		data := s.data
		return sample.IteratorFunc(func() ([]byte, bool) {
			if stop != nil && stop() {
				return nil, false
			}
			if cursor >= len(data) {
				return nil, false
			}
			end := cursor + chunkSize
			if end > len(data) {
				end = len(data)
			}
			chunk := data[cursor:end]
			cursor = end
			return chunk, true
		})
	}

	working := tileForWrap(s.data, chunkSize)
	bufLen := len(s.data)
	cursor := 0
	return sample.IteratorFunc(func() ([]byte, bool) {
		if stop != nil && stop() {
			return nil, false
		}
		if bufLen == 0 {
			return nil, false
		}
		chunk := working[cursor : cursor+chunkSize]
		cursor = (cursor + chunkSize) % bufLen
		return chunk, true
	})
}

// tileForWrap builds a working buffer long enough that every chunkSize-byte
// slice starting at any offset in [0, len(buf)) is contiguous: buf tiled
// ceil(chunkSize/len(buf)) times, with the first chunkSize bytes appended
// again as the overlap region.
func tileForWrap(buf []byte, chunkSize int) []byte {
	if len(buf) == 0 {
		return nil
	}
	tiles := (chunkSize + len(buf) - 1) / len(buf)
	if tiles < 1 {
		tiles = 1
	}
	working := make([]byte, tiles*len(buf)+chunkSize)
	for i := range working {
		working[i] = buf[i%len(buf)]
	}
	return working
}
