package driver

import (
	"sync"

	"github.com/doismellburning/soundmix/internal/voice"
)

// Pull is the callback-driven output driver shape: the device invokes
// Callback with a mutable output buffer whenever it wants more audio.
// There is no intermediary thread and therefore no mailbox — Submit
// applies commands synchronously on the caller's goroutine, per spec
// section 4.4.
type Pull struct {
	mx *voice.Mixer

	mu     sync.Mutex
	closed bool
}

var _ Driver = (*Pull)(nil)

// NewPull builds a pull driver over mx.
func NewPull(mx *voice.Mixer) *Pull {
	return &Pull{mx: mx}
}

// Submit implements Driver by applying cmd immediately.
func (p *Pull) Submit(cmd Command) error {
	switch cmd.Kind {
	case CmdPlay:
		p.mx.AddWithID(cmd.ID, cmd.Sample, cmd.Repeat)
	case CmdStopID:
		p.mx.Remove(cmd.ID)
	case CmdStopName:
		p.mx.RemoveByName(cmd.Name)
	case CmdSilence:
		p.mx.ClearAll()
	case CmdClose:
		return p.Close()
	}
	return nil
}

// Close marks the driver closed. Idempotent.
func (p *Pull) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (p *Pull) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Callback computes the equivalent byte length of out and writes the
// mixer's next chunk into it: min(len(out), C) bytes of mixed audio,
// zero-padded for any shortfall. L == C in steady state; the mismatch
// handling here is a robustness guard, not the normal case, per spec
// section 4.4.
func (p *Pull) Callback(out []byte) error {
	chunk, err := p.mx.NextChunk()
	if err != nil {
		return err
	}
	n := copy(out, chunk)
	for i := n; i < len(out); i++ {
		out[i] = 0
	}
	return nil
}
