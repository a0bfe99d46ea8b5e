// Package cues supplies the concrete descriptor set for the reference
// sound effects bouldercaves/synthsamples.py defines, wired up against
// this module's synth and pcm packages. It's the bridge between a
// process's configured geometry and the registry Init builds.
package cues

import (
	"math/rand/v2"
	"time"

	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/pcm"
	"github.com/doismellburning/soundmix/internal/registry"
	"github.com/doismellburning/soundmix/internal/sample"
	"github.com/doismellburning/soundmix/internal/synth"
)

// sidFreq converts a Commodore 64 SID chip oscillator register value to
// Hz, the same scaling factor synthsamples.py's module constant _sidfreq
// applies (985248.0 / 16777216.0) — kept because the reference cues'
// frequencies are expressed as raw SID register values.
const sidFreq = 985248.0 / 16777216.0

// titleMusicNotes is title_music from synthsamples.py: pairs of
// frequency-table indices, one oscillator panned per stereo channel.
var titleMusicNotes = []synth.Note{
	{22, 34}, {29, 38}, {34, 41}, {37, 46}, {20, 36}, {31, 39}, {32, 41}, {39, 48},
	{18, 42}, {18, 44}, {30, 46}, {18, 49}, {32, 44}, {51, 55}, {33, 45}, {49, 53},
	{22, 34}, {22, 46}, {22, 29}, {22, 36}, {20, 32}, {20, 48}, {20, 36}, {20, 32},
	{22, 34}, {22, 46}, {22, 29}, {22, 36}, {30, 42}, {30, 58}, {30, 46}, {30, 42},
	{20, 44}, {20, 44}, {20, 27}, {20, 34}, {28, 40}, {28, 56}, {28, 44}, {28, 40},
	{17, 29}, {41, 45}, {17, 31}, {41, 46}, {15, 39}, {15, 39}, {22, 51}, {22, 39},
	{22, 46}, {22, 46}, {22, 46}, {22, 46}, {34, 46}, {34, 46}, {22, 46}, {22, 46},
	{20, 46}, {20, 46}, {20, 46}, {20, 46}, {32, 46}, {32, 46}, {20, 46}, {20, 46},
	{22, 46}, {50, 46}, {22, 46}, {51, 46}, {34, 46}, {50, 46}, {22, 46}, {51, 46},
	{20, 46}, {50, 46}, {20, 46}, {51, 46}, {32, 44}, {48, 44}, {20, 44}, {49, 44},
	{22, 46}, {22, 58}, {22, 46}, {53, 56}, {34, 46}, {34, 55}, {22, 46}, {49, 53},
	{20, 44}, {20, 56}, {20, 44}, {20, 56}, {32, 44}, {32, 51}, {20, 44}, {20, 56},
	{22, 46}, {50, 46}, {22, 46}, {51, 46}, {34, 46}, {50, 46}, {22, 46}, {51, 46},
	{20, 46}, {50, 46}, {20, 46}, {51, 46}, {32, 44}, {48, 44}, {20, 44}, {49, 44},
	{46, 50}, {41, 46}, {38, 41}, {34, 38}, {44, 48}, {39, 44}, {36, 39}, {20, 32},
	{53, 50}, {50, 46}, {46, 41}, {41, 38}, {39, 48}, {36, 44}, {32, 39}, {20, 32},
}

// musicFreqTable is music_freq_table from synthsamples.py, already
// converted from SID register units to Hz.
var musicFreqTable = func() []float64 {
	raw := []float64{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		732, 778, 826, 876, 928, 978, 1042, 1100, 1170, 1238, 1312, 1390, 1464, 1556,
		1652, 1752, 1856, 1956, 2084, 2200, 2340, 2476, 2624, 2780, 2928, 3112, 3304,
		3504, 3712, 3912, 4168, 4400, 4680, 4952, 5248, 5560, 5856, 6224, 6608, 7008,
		7424, 7824, 8336, 8800, 9360, 9904, 10496, 11120, 11712,
	}
	hz := make([]float64, len(raw))
	for i, v := range raw {
		hz[i] = v * sidFreq
	}
	return hz
}()

// Descriptors builds the full reference descriptor set at geom, ready to
// pass to soundmix.Init. Names match synthsamples.py's Sample names
// exactly so a caller porting cues by name needs no translation.
func Descriptors(geom geometry.Geometry) ([]registry.Descriptor, error) {
	var out []registry.Descriptor

	builder := func(name string, limit int, build func(geometry.Geometry) (sample.Chunker, error)) {
		out = append(out, registry.Descriptor{
			Name:            name,
			MaxSimultaneous: limit,
			Source:          registry.Source{Builder: build},
		})
	}

	builder("music", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewSequenced(g, "music", synth.SequencedConfig{
			Notes:     titleMusicNotes,
			FreqTable: musicFreqTable,
			Attack:    time.Millisecond,
			Decay:     time.Millisecond,
			Sustain:   145 * time.Millisecond,
			Release:   10 * time.Millisecond,
			Amplitude: 0.5,
		}), nil
	})

	builder("amoeba", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewStochasticRepeating(g, "amoeba", synth.StochasticConfig{
			MinFreq: 0x0800 * sidFreq, MaxFreq: 0x1200 * sidFreq,
			Amplitude: 0.75, Attack: 24 * time.Millisecond, Decay: 6 * time.Millisecond,
			Sustain: 0, Release: 3 * time.Millisecond, SustainLevel: 0.5,
		}), nil
	})

	builder("magic_wall", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewStochasticRepeating(g, "magic_wall", synth.StochasticConfig{
			MinFreq: 0x8600 * sidFreq, MaxFreq: 0x9f00 * sidFreq,
			Amplitude: 0.4, Attack: 2 * time.Millisecond, Decay: 8 * time.Millisecond,
			Sustain: 0, Release: 30 * time.Millisecond, SustainLevel: 0.6,
		}), nil
	})

	builder("cover", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewStochasticRepeating(g, "cover", synth.StochasticConfig{
			MinFreq: 0x6000 * sidFreq, MaxFreq: 0xd800 * sidFreq,
			Amplitude: 0.7, Attack: 2 * time.Millisecond, Decay: 20 * time.Millisecond,
			Sustain: 0, Release: 20 * time.Millisecond, SustainLevel: 0.5,
		}), nil
	})

	builder("finished", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewDescendingSweep(g, "finished", synth.SweepConfig{
			Count: 180, StartFreq: 0x8000 * sidFreq, FreqStep: -180 * sidFreq,
			Amplitude: 0.8, Attack: 2 * time.Millisecond, Decay: 4 * time.Millisecond,
			Sustain: 0, Release: 20 * time.Millisecond, SustainLevel: 0.6,
		}), nil
	})

	builder("extra_life", 4, func(g geometry.Geometry) (sample.Chunker, error) {
		return buildExtraLife(g)
	})

	builder("game_over", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return buildGameOver(g), nil
	})

	builder("diamond", 4, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewGenerator(g, "diamond", 0, func(repeat bool) synth.NoteFactory {
			played := false
			return func() (synth.FrameProducer, bool) {
				if played {
					return nil, false
				}
				played = true
				freq := randDiamondFreq()
				osc := synth.NewTriangle(freq*sidFreq, g.SampleRate, 0.7)
				env := synth.NewEnvelope(osc, g.SampleRate, 2*time.Millisecond, 6*time.Millisecond, 0, 600*time.Millisecond, 0.7, true)
				return synth.Mono(env), true
			}
		}), nil
	})

	oneShot := func(name string, limit int, osc func(geometry.Geometry) synth.Producer, attack, decay, sustain, release time.Duration, sustainLevel float64) {
		builder(name, limit, func(g geometry.Geometry) (sample.Chunker, error) {
			return synth.NewGenerator(g, name, attack+decay+sustain+release, func(repeat bool) synth.NoteFactory {
				played := false
				return func() (synth.FrameProducer, bool) {
					if played {
						return nil, false
					}
					played = true
					env := synth.NewEnvelope(osc(g), g.SampleRate, attack, decay, sustain, release, sustainLevel, true)
					return synth.Mono(env), true
				}
			}), nil
		})
	}

	oneShot("walk_dirt", 4, func(g geometry.Geometry) synth.Producer { return synth.NewWhiteNoise(0.3) },
		34*time.Millisecond, 6*time.Millisecond, 0, 8*time.Millisecond, 0.5)
	oneShot("walk_empty", 4, func(g geometry.Geometry) synth.Producer { return synth.NewWhiteNoise(0.2) },
		34*time.Millisecond, 6*time.Millisecond, 0, 8*time.Millisecond, 0.5)
	oneShot("explosion", 2, func(g geometry.Geometry) synth.Producer { return synth.NewWhiteNoise(0.8) },
		8*time.Millisecond, 100*time.Millisecond, 0, 1500*time.Millisecond, 0.5)
	oneShot("collect_diamond", 4, func(g geometry.Geometry) synth.Producer {
		return synth.NewTriangle(0x1478*sidFreq, g.SampleRate, 0.8)
	}, 2*time.Millisecond, 6*time.Millisecond, 0, 650*time.Millisecond, 0.7)
	oneShot("boulder", 4, func(g geometry.Geometry) synth.Producer { return synth.NewWhiteNoise(0.8) },
		80*time.Millisecond, 80*time.Millisecond, 0, 650*time.Millisecond, 0.4)
	oneShot("crack", 4, func(g geometry.Geometry) synth.Producer { return synth.NewWhiteNoise(0.8) },
		8*time.Millisecond, 75*time.Millisecond, 0, 650*time.Millisecond, 0.4)
	oneShot("boxpush", 2, func(g geometry.Geometry) synth.Producer { return synth.NewWhiteNoise(0.6) },
		200*time.Millisecond, 200*time.Millisecond, 0, 0, 0.25)
	oneShot("slime", 4, func(g geometry.Geometry) synth.Producer {
		fm := synth.NewTriangle(5, g.SampleRate, 0.5)
		return synth.NewSine(261.62556, g.SampleRate, 0.25, fm)
	}, 0, 0, 0, 410*time.Millisecond, 1)

	builder("voodoo_explosion", 1, func(g geometry.Geometry) (sample.Chunker, error) {
		return synth.NewGenerator(g, "voodoo_explosion", 1500*time.Millisecond, func(repeat bool) synth.NoteFactory {
			played := false
			return func() (synth.FrameProducer, bool) {
				if played {
					return nil, false
				}
				played = true
				return synth.Mono(buildVoodooExplosion(g)), true
			}
		}), nil
	})

	for n := 1; n <= 9; n++ {
		n := n
		name := timeoutName(n)
		oneShot(name, 1, func(g geometry.Geometry) synth.Producer {
			return synth.NewTriangle(float64(n*256+0x1E00)*sidFreq, g.SampleRate, 0.99)
		}, 2*time.Millisecond, 200*time.Millisecond, 100*time.Millisecond, 800*time.Millisecond, 0.5)
	}

	return out, nil
}

func timeoutName(n int) string {
	const digits = "0123456789"
	return "timeout_" + string(digits[n])
}

// randDiamondFreq reproduces Diamond.chunked_frame_data's masked random
// SID register value. math/rand/v2's top-level functions are safe for
// concurrent use, which matters here since a Diamond voice's notes are
// built on whatever goroutine calls Chunks (spec section 4.2).
func randDiamondFreq() float64 {
	freq := 0x8600 + rand.IntN(0xfeff-0x8600+1)
	freq &= 0b0111100011111111
	freq |= 0b1000011000000000
	return float64(freq)
}

func buildExtraLife(g geometry.Geometry) (sample.Chunker, error) {
	parts := make([]*pcm.Stored, 0, 16)
	for n := 0; n < 16; n++ {
		freq := float64(0x1400+n*1024) * sidFreq
		osc := synth.NewTriangle(freq, g.SampleRate, 0.8)
		env := synth.NewEnvelope(osc, g.SampleRate, 2*time.Millisecond, 24*time.Millisecond, 0, 30*time.Millisecond, 0.6, true)
		note := synth.Mono(env)
		buf := renderFrameProducer(g, note)
		part, err := pcm.NewStored(g, "extra_life", buf, g.Channels)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return pcm.Join(g, "extra_life", parts...)
}

func buildGameOver(g geometry.Geometry) sample.Chunker {
	return synth.NewGenerator(g, "game_over", 1970*time.Millisecond, func(repeat bool) synth.NoteFactory {
		played := false
		return func() (synth.FrameProducer, bool) {
			if played {
				return nil, false
			}
			played = true
			fm := synth.NewLinear(0, -2.3e-5)
			osc := synth.NewTriangleFM(1567.98174, g.SampleRate, 1.0, fm)
			env := synth.NewEnvelope(osc, g.SampleRate, 100*time.Millisecond, 300*time.Millisecond, 1500*time.Millisecond, 70*time.Millisecond, 1.0, true)
			ampMod := synth.NewSquareH(10, g.SampleRate, 1.0/9.0, 0.5, 0.5)
			modulated := synth.AmplitudeModulate(env, ampMod)
			return synth.Mono(modulated), true
		}
	})
}

func buildVoodooExplosion(g geometry.Geometry) synth.Producer {
	noise := synth.NewWhiteNoise(0.4)
	env1 := synth.NewEnvelope(noise, g.SampleRate, 20*time.Millisecond, 20*time.Millisecond, 0, 1500*time.Millisecond, 0.72, true)

	fm := synth.NewSineBias(5, g.SampleRate, 0.49, 0.5, nil)
	tone := synth.NewSine(146.83238, g.SampleRate, 0.7, fm)
	env2 := synth.NewEnvelope(tone, g.SampleRate, 180*time.Millisecond, 160*time.Millisecond, 0, 1200*time.Millisecond, 0.48, true)

	return synth.Mix(env1, env2)
}

// renderFrameProducer drains a FrameProducer fully into a raw PCM buffer
// at g's geometry, used to precompute fixed one-shot buffers (ExtraLife's
// Join needs finite, already-rendered parts).
func renderFrameProducer(g geometry.Geometry, fp synth.FrameProducer) []byte {
	scale := float64(int64(1)<<(8*uint(g.SampleWidth)-1) - 1)
	var buf []byte
	for {
		fr, ok := fp.Next()
		if !ok {
			break
		}
		buf = append(buf, synth.Quantize(fr.Left, scale, g.SampleWidth)...)
		if g.Channels == 2 {
			buf = append(buf, synth.Quantize(fr.Right, scale, g.SampleWidth)...)
		}
	}
	return buf
}

