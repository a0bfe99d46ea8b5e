package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/sample"
)

func regTestGeom() geometry.Geometry {
	return geometry.Geometry{SampleRate: 1000, SampleWidth: 2, Channels: 1}
}

type stubChunker struct{ name string }

func (s stubChunker) Name() string               { return s.name }
func (s stubChunker) Duration() time.Duration     { return 0 }
func (s stubChunker) Chunks(int, bool, func() bool) sample.Iterator {
	return sample.IteratorFunc(func() ([]byte, bool) { return nil, false })
}

func TestBuildPrefersBuilderOverSample(t *testing.T) {
	built := stubChunker{name: "built"}
	preBuilt := stubChunker{name: "pre-built"}

	reg, err := Build(regTestGeom(), []Descriptor{
		{Name: "x", Source: Source{
			Sample:  preBuilt,
			Builder: func(geometry.Geometry) (sample.Chunker, error) { return built, nil },
		}},
	})
	require.NoError(t, err)

	s, ok := reg.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "built", s.Name())
}

func TestBuildRejectsEmptyName(t *testing.T) {
	_, err := Build(regTestGeom(), []Descriptor{
		{Name: "", Source: Source{Sample: stubChunker{name: "x"}}},
	})
	assert.Error(t, err)
}

func TestBuildRejectsDescriptorWithNeitherSampleNorBuilder(t *testing.T) {
	_, err := Build(regTestGeom(), []Descriptor{{Name: "x"}})
	assert.Error(t, err)
}

func TestBuildPropagatesBuilderError(t *testing.T) {
	_, err := Build(regTestGeom(), []Descriptor{
		{Name: "x", Source: Source{
			Builder: func(geometry.Geometry) (sample.Chunker, error) { return nil, errors.New("boom") },
		}},
	})
	assert.Error(t, err)
}

func TestLimitsOnlyIncludesPositiveMaxSimultaneous(t *testing.T) {
	reg, err := Build(regTestGeom(), []Descriptor{
		{Name: "capped", Source: Source{Sample: stubChunker{name: "capped"}}, MaxSimultaneous: 3},
		{Name: "uncapped", Source: Source{Sample: stubChunker{name: "uncapped"}}},
	})
	require.NoError(t, err)

	limits := reg.Limits()
	assert.Equal(t, 3, limits["capped"])
	_, ok := limits["uncapped"]
	assert.False(t, ok)
}

func TestLookupMissingNameReturnsFalse(t *testing.T) {
	reg, err := Build(regTestGeom(), nil)
	require.NoError(t, err)
	_, ok := reg.Lookup("nope")
	assert.False(t, ok)
}

func TestNamesListsEveryDescriptor(t *testing.T) {
	reg, err := Build(regTestGeom(), []Descriptor{
		{Name: "a", Source: Source{Sample: stubChunker{name: "a"}}},
		{Name: "b", Source: Source{Sample: stubChunker{name: "b"}}},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, reg.Names())
}
