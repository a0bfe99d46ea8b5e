package soundmix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/soundmix/internal/driver"
	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
	"github.com/doismellburning/soundmix/internal/voice"
)

func testGeom() geometry.Geometry {
	return geometry.Geometry{SampleRate: 1000, SampleWidth: 2, Channels: 1}
}

// endlessSample never exhausts on its own; only Stop/Silence end it.
type endlessSample struct{ name string }

func (e endlessSample) Name() string           { return e.name }
func (e endlessSample) Duration() time.Duration { return 0 }
func (e endlessSample) Chunks(chunkSize int, repeat bool, stop func() bool) sample.Iterator {
	return sample.IteratorFunc(func() ([]byte, bool) {
		if stop != nil && stop() {
			return nil, false
		}
		return make([]byte, chunkSize), true
	})
}

// finiteSample yields exactly n chunks then exhausts.
type finiteSample struct {
	name string
	n    int
}

func (f finiteSample) Name() string           { return f.name }
func (f finiteSample) Duration() time.Duration { return 0 }
func (f finiteSample) Chunks(chunkSize int, repeat bool, stop func() bool) sample.Iterator {
	remaining := f.n
	return sample.IteratorFunc(func() ([]byte, bool) {
		if remaining <= 0 {
			return nil, false
		}
		remaining--
		return make([]byte, chunkSize), true
	})
}

func descriptorsOf(samples ...sample.Chunker) []Descriptor {
	out := make([]Descriptor, len(samples))
	for i, s := range samples {
		out[i] = Descriptor{Name: s.Name(), Source: Source{Sample: s}}
	}
	return out
}

func mustInit(t *testing.T, descriptors []Descriptor) *Handle {
	t.Helper()
	h, err := Init(testGeom(), descriptors, Options{ChunkSize: 4, AllowDummyDriver: true})
	require.NoError(t, err)
	t.Cleanup(func() { h.Shutdown() })
	return h
}

func TestInitRejectsInvalidGeometry(t *testing.T) {
	_, err := Init(geometry.Geometry{}, nil, Options{AllowDummyDriver: true})
	assert.Error(t, err)
}

func TestInitFailsWithoutDriverWhenDummyDisallowed(t *testing.T) {
	_, err := Init(testGeom(), nil, Options{AllowDummyDriver: false})
	assert.ErrorIs(t, err, driver.ErrDriverUnavailable)
}

func TestPlaySampleRejectsUnregisteredName(t *testing.T) {
	h := mustInit(t, nil)
	_, ok := h.PlaySample("nope", false)
	assert.False(t, ok)
}

func TestPlaySampleEnforcesGlobalPolyphonyCap(t *testing.T) {
	names := make([]sample.Chunker, 0, voice.GlobalPolyphonyCap+1)
	for i := 0; i < voice.GlobalPolyphonyCap+1; i++ {
		names = append(names, endlessSample{name: string(rune('a' + i))})
	}
	h := mustInit(t, descriptorsOf(names...))

	var admitted int
	for _, s := range names {
		if _, ok := h.PlaySample(s.Name(), false); ok {
			admitted++
		}
	}
	assert.Equal(t, voice.GlobalPolyphonyCap, admitted)
	assert.Equal(t, voice.GlobalPolyphonyCap, h.ActiveCount())
}

func TestPlaySampleRepeatIsExclusivePerName(t *testing.T) {
	h := mustInit(t, descriptorsOf(endlessSample{name: "loop"}))

	id1, ok := h.PlaySample("loop", true)
	require.True(t, ok)

	_, ok = h.PlaySample("loop", true)
	assert.False(t, ok, "a second repeating play of the same name must be rejected")

	h.Stop(id1)
	_, ok = h.PlaySample("loop", true)
	assert.True(t, ok, "once the repeating voice stops, a new repeat is admissible")
}

func TestSilenceStopsEveryVoice(t *testing.T) {
	h := mustInit(t, descriptorsOf(endlessSample{name: "a"}, endlessSample{name: "b"}))
	h.PlaySample("a", false)
	h.PlaySample("b", false)
	require.Equal(t, 2, h.ActiveCount())

	h.Silence()
	assert.Equal(t, 0, h.ActiveCount())
}

func TestStopByNameStopsEveryVoiceOfThatName(t *testing.T) {
	h := mustInit(t, descriptorsOf(endlessSample{name: "a"}))
	h.PlaySample("a", false)
	h.PlaySample("a", false)
	h.SetSampleLimit("a", 10)
	h.PlaySample("a", false)
	require.Equal(t, 3, h.ActiveCount())

	h.StopByName("a")
	assert.Equal(t, 0, h.ActiveCount())
}

func TestGeneratorExhaustionRemovesVoiceAutomatically(t *testing.T) {
	h := mustInit(t, descriptorsOf(finiteSample{name: "fx", n: 1}))
	_, ok := h.PlaySample("fx", false)
	require.True(t, ok)
	require.Equal(t, 1, h.ActiveCount())

	// Drive the mixer forward via the dummy driver: the first chunk
	// delivers finiteSample's last payload, the second observes exhaustion.
	dummy, ok := h.drv.(*driver.Dummy)
	require.True(t, ok)
	require.NoError(t, dummy.Discard())
	require.Equal(t, 1, h.ActiveCount(), "a voice survives the chunk that delivers its last payload")

	require.NoError(t, dummy.Discard())
	assert.Equal(t, 0, h.ActiveCount(), "a one-shot sample must be removed once its iterator exhausts")
}

func TestSetSampleLimitCapsFutureAdmissions(t *testing.T) {
	h := mustInit(t, descriptorsOf(endlessSample{name: "a"}))
	h.SetSampleLimit("a", 1)

	_, ok1 := h.PlaySample("a", false)
	_, ok2 := h.PlaySample("a", false)
	assert.True(t, ok1)
	assert.False(t, ok2)
}

func TestInitDefaultsChunkSizeTo20ms(t *testing.T) {
	geom := testGeom()
	h, err := Init(geom, nil, Options{AllowDummyDriver: true})
	require.NoError(t, err)
	defer h.Shutdown()

	want := geom.ChunkBytes(defaultChunkDuration)
	assert.Equal(t, want, h.mixer.ChunkSize())
}
