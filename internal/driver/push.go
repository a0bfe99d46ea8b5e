package driver

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/doismellburning/soundmix/internal/voice"
)

// WriteFunc performs one blocking write of a C-byte chunk to a device or
// stream. A device-level write error stops the driver loop and is logged
// verbatim when a logger is set; it is not returned to any caller (Close
// still returns nil). The core never retries.
type WriteFunc func(chunk []byte) error

// Push is the dedicated-thread output driver shape: a goroutine drains the
// command mailbox non-blockingly between chunks, then pulls one chunk from
// the mixer and performs a blocking write, per spec section 4.4.
type Push struct {
	mx      *voice.Mixer
	write   WriteFunc
	mailbox chan Command
	logger  *log.Logger

	shuttingDown atomic.Bool
	done         chan struct{}
	wg           sync.WaitGroup
	closeOnce    sync.Once
}

var _ Driver = (*Push)(nil)

// IsPush reports true, letting callers distinguish push drivers (which
// need a tentative id handed back before admission, since CmdPlay is
// applied asynchronously) from pull drivers via a type assertion to an
// interface with this method — satisfied automatically by anything that
// embeds *Push.
func (p *Push) IsPush() bool { return true }

// NewPush starts a push driver's output goroutine immediately. write is
// called once per chunk; mailboxSize bounds the command queue (use
// DefaultMailboxSize if unsure). logger may be nil.
func NewPush(mx *voice.Mixer, write WriteFunc, mailboxSize int, logger *log.Logger) *Push {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	p := &Push{
		mx:      mx,
		write:   write,
		mailbox: make(chan Command, mailboxSize),
		logger:  logger,
		done:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// Submit implements Driver by enqueueing cmd onto the mailbox without
// blocking. Returns ErrMailboxOverflow if the mailbox is full.
func (p *Push) Submit(cmd Command) error {
	if p.shuttingDown.Load() {
		return nil
	}
	select {
	case p.mailbox <- cmd:
		return nil
	default:
		if p.logger != nil {
			p.logger.Warn("mailbox overflow, dropping command", "kind", cmd.Kind)
		}
		return ErrMailboxOverflow
	}
}

// Close signals the output goroutine to stop after draining any commands
// already queued, and joins it. Idempotent.
func (p *Push) Close() error {
	p.closeOnce.Do(func() {
		p.shuttingDown.Store(true)
		close(p.done)
		p.wg.Wait()
	})
	return nil
}

func (p *Push) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drainMailbox()
			return
		default:
		}

		p.drainMailbox()
		if p.shuttingDown.Load() {
			return
		}

		chunk, err := p.mx.NextChunk()
		if err != nil {
			if p.logger != nil {
				p.logger.Error("mixer contract violation, stopping driver", "err", err)
			}
			return
		}
		if err := p.write(chunk); err != nil {
			if p.logger != nil {
				p.logger.Error("device write failed, stopping driver", "err", err)
			}
			return
		}
	}
}

// drainMailbox applies every command currently queued without blocking.
func (p *Push) drainMailbox() {
	for {
		select {
		case cmd := <-p.mailbox:
			p.apply(cmd)
		default:
			return
		}
	}
}

func (p *Push) apply(cmd Command) {
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
		p.shuttingDown.Store(true)
	}
}
