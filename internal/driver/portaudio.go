package driver

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/voice"
)

// PortAudio output is the Go-native analogue of bouldercaves/audio.py's
// Sounddevice (callback) and SounddeviceThread/PyAudio (blocking-thread)
// backends, both of which sit on top of PortAudio. The portaudio-go
// binding exposes typed sample buffers rather than raw bytes, so these
// drivers currently support 16-bit PCM only; other widths fail to open
// with a ConfigError-equivalent, same as spec section 7's fatal
// DriverUnavailable path.

// openPortAudioStream initializes the PortAudio library (idempotent across
// calls — Initialize/Terminate are refcounted by the binding) and opens a
// default output stream at the configured geometry, invoking callback for
// each buffer PortAudio hands back.
func openPortAudioStream(geom geometry.Geometry, framesPerChunk int, callback func(out []int16)) (*portaudio.Stream, error) {
	if geom.SampleWidth != 2 {
		return nil, fmt.Errorf("portaudio driver: sample width %d unsupported (only 16-bit PCM)", geom.SampleWidth)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio driver: initialize: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, geom.Channels, float64(geom.SampleRate), framesPerChunk, callback)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio driver: open stream: %w", err)
	}
	return stream, nil
}

// PortAudioPull is a pull driver backed by PortAudio's callback stream,
// grounded on audio.py's Sounddevice class.
type PortAudioPull struct {
	*Pull
	stream *portaudio.Stream
}

// NewPortAudioPull opens a PortAudio callback stream and wraps it in a
// Pull driver over mx.
func NewPortAudioPull(geom geometry.Geometry, mx *voice.Mixer, framesPerChunk int) (*PortAudioPull, error) {
	pull := NewPull(mx)
	stream, err := openPortAudioStream(geom, framesPerChunk, func(out []int16) {
		buf := make([]byte, len(out)*2)
		if err := pull.Callback(buf); err != nil {
			// Contract violation: there is no error channel back to
			// PortAudio's callback; fail safe by emitting silence.
			for i := range buf {
				buf[i] = 0
			}
		}
		for i := range out {
			out[i] = int16(uint16(buf[2*i]) | uint16(buf[2*i+1])<<8)
		}
	})
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio driver: start stream: %w", err)
	}
	return &PortAudioPull{Pull: pull, stream: stream}, nil
}

// Close stops the PortAudio stream and terminates the library in addition
// to the embedded Pull's bookkeeping.
func (p *PortAudioPull) Close() error {
	_ = p.Pull.Close()
	err := p.stream.Close()
	if tErr := portaudio.Terminate(); err == nil {
		err = tErr
	}
	return err
}

// PortAudioPush is a push driver backed by PortAudio's blocking stream,
// grounded on audio.py's SounddeviceThread/PyAudio classes.
type PortAudioPush struct {
	*Push
	stream *portaudio.Stream
}

// NewPortAudioPush opens a PortAudio blocking stream on a dedicated
// goroutine and drives it with the mixer's chunks. The stream's
// frames-per-buffer is derived from the mixer's chunk size rather than
// the requested framesPerChunk, so the two can never disagree; the
// framesPerChunk argument (and so SetDefaultFramesPerChunk) has no effect
// here, and the buffer size follows the mixer's chunk size alone.
func NewPortAudioPush(geom geometry.Geometry, mx *voice.Mixer, framesPerChunk, mailboxSize int, logger *log.Logger) (*PortAudioPush, error) {
	if geom.SampleWidth != 2 {
		return nil, fmt.Errorf("portaudio driver: sample width %d unsupported (only 16-bit PCM)", geom.SampleWidth)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio driver: initialize: %w", err)
	}

	frameBytes := geom.FrameBytes()
	chunkBytes := mx.ChunkSize()
	if frameBytes <= 0 || chunkBytes%frameBytes != 0 {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio driver: mixer chunk size %d is not frame-aligned to %d", chunkBytes, frameBytes)
	}
	framesPerChunk = chunkBytes / frameBytes

	samples := make([]int16, framesPerChunk*geom.Channels)
	stream, err := portaudio.OpenDefaultStream(0, geom.Channels, float64(geom.SampleRate), framesPerChunk, &samples)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio driver: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("portaudio driver: start stream: %w", err)
	}

	write := func(chunk []byte) error {
		n := min(len(samples), len(chunk)/2)
		for i := 0; i < n; i++ {
			samples[i] = int16(uint16(chunk[2*i]) | uint16(chunk[2*i+1])<<8)
		}
		for i := n; i < len(samples); i++ {
			samples[i] = 0
		}
		return stream.Write()
	}

	push := NewPush(mx, write, mailboxSize, logger)
	return &PortAudioPush{Push: push, stream: stream}, nil
}

// Close joins the push driver's goroutine and tears down the PortAudio
// stream and library.
func (p *PortAudioPush) Close() error {
	err := p.Push.Close()
	if cErr := p.stream.Close(); err == nil {
		err = cErr
	}
	if tErr := portaudio.Terminate(); err == nil {
		err = tErr
	}
	return err
}
