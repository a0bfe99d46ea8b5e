package driver

import (
	"github.com/charmbracelet/log"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/voice"
)

// defaultFramesPerChunk is the frame count the built-in portaudio-pull
// factory requests per buffer when no override has been set. The
// portaudio-push factory passes it on too, but NewPortAudioPush sizes its
// buffer from the mixer's chunk size instead.
var defaultFramesPerChunk = 1024

// SetDefaultFramesPerChunk overrides the frame count the built-in
// portaudio-pull factory requests per buffer. Call before Open.
func SetDefaultFramesPerChunk(n int) {
	if n > 0 {
		defaultFramesPerChunk = n
	}
}

func init() {
	Register("portaudio-pull", 20, func(geom geometry.Geometry, mx *voice.Mixer, logger *log.Logger) (Driver, error) {
		return NewPortAudioPull(geom, mx, defaultFramesPerChunk)
	})
	Register("portaudio-push", 10, func(geom geometry.Geometry, mx *voice.Mixer, logger *log.Logger) (Driver, error) {
		return NewPortAudioPush(geom, mx, defaultFramesPerChunk, DefaultMailboxSize, logger)
	})
}
