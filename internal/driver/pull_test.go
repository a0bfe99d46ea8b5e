package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
	"github.com/doismellburning/soundmix/internal/voice"
)

func driverTestGeom() geometry.Geometry {
	return geometry.Geometry{SampleRate: 1000, SampleWidth: 2, Channels: 1}
}

type endlessChunker struct{ name string }

func (e endlessChunker) Name() string            { return e.name }
func (e endlessChunker) Duration() time.Duration { return 0 }

func (e endlessChunker) Chunks(chunkSize int, repeat bool, stop func() bool) sample.Iterator {
	return sample.IteratorFunc(func() ([]byte, bool) {
		return make([]byte, chunkSize), true
	})
}

func TestPullSubmitPlayAppliesSynchronously(t *testing.T) {
	mx := voice.New(driverTestGeom(), 8, nil)
	p := NewPull(mx)

	err := p.Submit(Command{Kind: CmdPlay, ID: 1, Sample: endlessChunker{name: "sfx"}, Repeat: false})
	require.NoError(t, err)
	assert.Equal(t, 1, mx.ActiveCount(), "pull driver Submit must apply CmdPlay before returning")
}

func TestPullSubmitStopAndSilence(t *testing.T) {
	mx := voice.New(driverTestGeom(), 8, nil)
	p := NewPull(mx)

	p.Submit(Command{Kind: CmdPlay, ID: 1, Sample: endlessChunker{name: "a"}})
	p.Submit(Command{Kind: CmdPlay, ID: 2, Sample: endlessChunker{name: "b"}})
	assert.Equal(t, 2, mx.ActiveCount())

	p.Submit(Command{Kind: CmdStopName, Name: "a"})
	assert.Equal(t, 1, mx.ActiveCount())

	p.Submit(Command{Kind: CmdSilence})
	assert.Equal(t, 0, mx.ActiveCount())
}

func TestPullCallbackZeroPadsShortfall(t *testing.T) {
	mx := voice.New(driverTestGeom(), 4, nil)
	p := NewPull(mx)

	out := make([]byte, 8)
	for i := range out {
		out[i] = 0xAA
	}
	err := p.Callback(out)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 8), out, "callback buffer longer than chunk size must be zero-padded past the mixer's chunk")
}

func TestPullCloseIsIdempotent(t *testing.T) {
	mx := voice.New(driverTestGeom(), 4, nil)
	p := NewPull(mx)
	assert.False(t, p.Closed())
	assert.NoError(t, p.Close())
	assert.True(t, p.Closed())
	assert.NoError(t, p.Close())
}

func TestPullSubmitCloseClosesDriver(t *testing.T) {
	mx := voice.New(driverTestGeom(), 4, nil)
	p := NewPull(mx)
	err := p.Submit(Command{Kind: CmdClose})
	require.NoError(t, err)
	assert.True(t, p.Closed())
}
