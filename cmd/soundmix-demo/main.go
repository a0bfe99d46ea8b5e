// Command soundmix-demo exercises the mixer end-to-end: it initializes
// soundmix with the reference cue set, plays a handful of sounds in
// sequence and in overlap, and prints what it did as it goes.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/doismellburning/soundmix"
	"github.com/doismellburning/soundmix/internal/cues"
	"github.com/doismellburning/soundmix/internal/driver"
	"github.com/doismellburning/soundmix/internal/geometry"
	"github.com/doismellburning/soundmix/internal/voice"
)

// registerDumpDriver adds a one-off "dump" driver entry at the top
// priority, so -dump-file always wins when given regardless of what else
// is registered or named in -driver.
func registerDumpDriver(geom geometry.Geometry, pattern string) {
	driver.Register("dump", 1000, func(_ geometry.Geometry, mx *voice.Mixer, _ *log.Logger) (driver.Driver, error) {
		return driver.NewDumpPush(mx, pattern, time.Now(), driver.DefaultMailboxSize)
	})
}

func main() {
	var sampleRate = pflag.IntP("sample-rate", "r", 44100, "Audio sample rate, per sec.")
	var channels = pflag.IntP("channels", "n", 2, "Number of audio channels, 1 or 2.")
	var sampleWidth = pflag.IntP("sample-width", "b", 2, "Bytes per audio sample (1-4).")
	var driverPref = pflag.StringArrayP("driver", "d", nil, "Output driver preference, tried in order (e.g. portaudio-push). May be repeated.")
	var dumpTo = pflag.StringP("dump-file", "o", "", "strftime-pattern file to dump raw PCM to instead of a device.")
	var allowDummy = pflag.BoolP("allow-dummy", "q", true, "Fall back to the silent dummy driver if no audio device is available.")
	var verbose = pflag.BoolP("verbose", "v", false, "Debug-level logging.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - a demo of the soundmix polyphonic PCM mixer.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: soundmix-demo [options]\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	geom := geometry.Geometry{SampleRate: *sampleRate, SampleWidth: *sampleWidth, Channels: *channels}
	if err := geom.Validate(); err != nil {
		logger.Fatal("invalid geometry", "err", err)
	}

	descriptors, err := cues.Descriptors(geom)
	if err != nil {
		logger.Fatal("building cue descriptors", "err", err)
	}

	preference := *driverPref
	if *dumpTo != "" {
		preference = append([]string{"dump"}, preference...)
		registerDumpDriver(geom, *dumpTo)
	}

	handle, err := soundmix.Init(geom, descriptors, soundmix.Options{
		DriverPreference: preference,
		AllowDummyDriver: *allowDummy,
		Logger:           logger,
	})
	if err != nil {
		logger.Fatal("soundmix init failed", "err", err)
	}
	defer handle.Shutdown() //nolint:errcheck

	runDemo(handle, logger)
}

func runDemo(h *soundmix.Handle, logger *log.Logger) {
	play := func(name string, repeat bool, wait time.Duration) {
		logger.Info("playing", "name", name, "repeat", repeat)
		if _, ok := h.PlaySample(name, repeat); !ok {
			logger.Warn("play rejected", "name", name)
		}
		time.Sleep(wait)
	}

	play("slime", false, 500*time.Millisecond)
	play("explosion", false, 500*time.Millisecond)
	play("voodoo_explosion", false, 500*time.Millisecond)

	for i := 0; i < 5; i++ {
		play("diamond", false, 150*time.Millisecond)
	}
	play("collect_diamond", false, 500*time.Millisecond)
	play("boulder", false, 500*time.Millisecond)
	play("crack", false, 500*time.Millisecond)

	for n := 1; n <= 3; n++ {
		play(fmt.Sprintf("timeout_%d", n), false, 300*time.Millisecond)
	}

	logger.Info("starting cover loop")
	h.PlaySample("cover", true)
	time.Sleep(2 * time.Second)
	h.StopByName("cover")

	logger.Info("starting amoeba loop")
	h.PlaySample("amoeba", true)
	time.Sleep(2 * time.Second)
	h.Silence()

	play("boxpush", false, 500*time.Millisecond)
	play("extra_life", false, 1*time.Second)
	play("game_over", false, 2*time.Second)

	logger.Info("title music (5s excerpt)")
	h.PlaySample("music", true)
	time.Sleep(5 * time.Second)
	h.Silence()

	logger.Info("demo complete")
}
