package driver

import (
	"fmt"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/doismellburning/soundmix/internal/voice"
)

// LogFilename renders pattern (a strftime layout, e.g.
// "soundmix-%Y%m%d-%H%M%S.pcm") against t, for naming a raw-dump file a
// DumpPush opens at startup.
func LogFilename(pattern string, t time.Time) (string, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return "", fmt.Errorf("logfile: parse pattern %q: %w", pattern, err)
	}
	return f.FormatString(t), nil
}

// DumpPush is a push driver that appends every chunk it is handed to a
// file on disk — useful for offline inspection of a mix with no audio
// device present, grounded on the teacher's convention of timestamped
// log files for captured sessions.
type DumpPush struct {
	*Push
	file *os.File
}

// NewDumpPush opens (creating if absent) the file named by rendering
// pattern against t and returns a push driver that appends raw chunks to
// it.
func NewDumpPush(mx *voice.Mixer, pattern string, t time.Time, mailboxSize int) (*DumpPush, error) {
	name, err := LogFilename(pattern, t)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logfile: open %s: %w", name, err)
	}
	write := func(chunk []byte) error {
		_, err := file.Write(chunk)
		return err
	}
	return &DumpPush{Push: NewPush(mx, write, mailboxSize, nil), file: file}, nil
}

// Close joins the push driver's goroutine and closes the file.
func (d *DumpPush) Close() error {
	err := d.Push.Close()
	if cErr := d.file.Close(); err == nil {
		err = cErr
	}
	return err
}
