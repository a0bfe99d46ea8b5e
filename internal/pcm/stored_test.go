package pcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/soundmix/internal/geometry"
)

func testGeom() geometry.Geometry {
	return geometry.Geometry{SampleRate: 44100, SampleWidth: 2, Channels: 2}
}

func TestNewStoredRejectsMisalignedBuffer(t *testing.T) {
	_, err := NewStored(testGeom(), "bad", []byte{1, 2, 3}, 2)
	assert.Error(t, err)
}

func TestNewStoredDuplicatesMonoToStereo(t *testing.T) {
	geom := testGeom()
	mono := []byte{1, 0, 2, 0} // two mono frames, 16-bit
	s, err := NewStored(geom, "mono", mono, 1)
	require.NoError(t, err)

	it := s.Chunks(geom.FrameBytes()*2, false, nil)
	chunk, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 0, 1, 0, 2, 0, 2, 0}, chunk)
}

func TestStoredChunksNonRepeatingYieldsShortFinalChunk(t *testing.T) {
	geom := testGeom()
	data := make([]byte, geom.FrameBytes()*3)
	for i := range data {
		data[i] = byte(i + 1)
	}
	s, err := NewStored(geom, "three-frames", data, geom.Channels)
	require.NoError(t, err)

	chunkSize := geom.FrameBytes() * 2
	it := s.Chunks(chunkSize, false, nil)

	chunk1, ok := it.Next()
	require.True(t, ok)
	assert.Len(t, chunk1, chunkSize)

	chunk2, ok := it.Next()
	require.True(t, ok)
	assert.Len(t, chunk2, geom.FrameBytes())

	_, ok = it.Next()
	assert.False(t, ok, "iterator must end once data is exhausted")
}

func TestStoredChunksRepeatingWrapsForever(t *testing.T) {
	geom := testGeom()
	data := make([]byte, geom.FrameBytes()*3)
	for i := range data {
		data[i] = byte(i + 1)
	}
	s, err := NewStored(geom, "loop", data, geom.Channels)
	require.NoError(t, err)

	chunkSize := geom.FrameBytes() * 5 // longer than the source buffer
	calls := 0
	stop := func() bool {
		calls++
		return calls > 10
	}
	it := s.Chunks(chunkSize, true, stop)

	seen := 0
	for {
		chunk, ok := it.Next()
		if !ok {
			break
		}
		assert.Len(t, chunk, chunkSize)
		seen++
	}
	assert.Greater(t, seen, 0, "a repeating iterator must keep producing chunks until stop fires")
}

func TestStoredChunksHonorsStopImmediately(t *testing.T) {
	geom := testGeom()
	data := make([]byte, geom.FrameBytes()*3)
	s, err := NewStored(geom, "stoppable", data, geom.Channels)
	require.NoError(t, err)

	it := s.Chunks(geom.FrameBytes(), true, func() bool { return true })
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestJoinConcatenatesInOrder(t *testing.T) {
	geom := testGeom()
	a, err := NewStored(geom, "a", []byte{1, 0, 1, 0}, geom.Channels)
	require.NoError(t, err)
	b, err := NewStored(geom, "b", []byte{2, 0, 2, 0}, geom.Channels)
	require.NoError(t, err)

	joined, err := Join(geom, "ab", a, b)
	require.NoError(t, err)

	it := joined.Chunks(8, false, nil)
	chunk, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 0, 1, 0, 2, 0, 2, 0}, chunk)
}
