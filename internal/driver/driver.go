// Package driver implements the two output-driver shapes spec section 4.4
// describes — a pull (callback) driver invoked by the audio subsystem, and
// a push (thread) driver that owns a blocking write loop — plus the
// command mailbox the control surface uses to talk to a push driver.
package driver

import (
	"errors"

	"github.com/doismellburning/soundmix/internal/sample"
)

// ErrMailboxOverflow is returned when a push driver's bounded command
// mailbox is full at enqueue time. The command is dropped; the caller is
// expected to retry or drop it, per spec section 7.
var ErrMailboxOverflow = errors.New("driver: command mailbox overflow")

// ErrDriverUnavailable is returned by Open when no driver in the
// preference list, nor any registered driver, nor the dummy fallback
// (if disallowed) could be constructed. Fatal to init, per spec section 7.
var ErrDriverUnavailable = errors.New("driver: no output driver available")

// CommandKind identifies the operation a Command carries.
type CommandKind int

const (
	// CmdPlay admits a new voice. ID is the tentative id a push driver's
	// caller was already given; Sample and Repeat are the play request.
	CmdPlay CommandKind = iota
	// CmdStopID removes the voice with the given ID.
	CmdStopID
	// CmdStopName removes every voice with the given Name.
	CmdStopName
	// CmdSilence removes every active voice.
	CmdSilence
	// CmdClose shuts the driver down. A push driver first applies every
	// command already in its mailbox, then its output goroutine stops; a
	// pull driver closes at once.
	CmdClose
)

// Command is one entry in the mailbox a push driver drains between
// chunks, or a synchronous operation a pull driver applies immediately.
type Command struct {
	Kind   CommandKind
	ID     int
	Name   string
	Sample sample.Chunker
	Repeat bool
}

// Driver is the contract both output-driver shapes satisfy, letting the
// control surface talk to either uniformly.
type Driver interface {
	// Submit applies cmd. A push driver enqueues it onto its mailbox,
	// returning ErrMailboxOverflow if full; a pull driver applies it
	// synchronously on the caller's goroutine and never returns that
	// error (there is no mailbox to overflow).
	Submit(Command) error

	// Close tears the driver down exactly once: joins the push driver's
	// thread, or stops the pull driver's stream.
	Close() error
}

// DefaultMailboxSize is the bound spec section 4.4 suggests ("e.g. 100").
const DefaultMailboxSize = 100
