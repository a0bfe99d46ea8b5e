package driver

import (
	"context"
	"fmt"
	"net"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"

	"github.com/doismellburning/soundmix/internal/voice"
)

// NetPush is a push driver that writes each chunk to a raw TCP connection
// instead of a local device — the network PCM sink spec section 6.4
// names as a domain stretch goal for soundmix's output surface.
type NetPush struct {
	*Push
	conn net.Conn
}

// NewNetPush dials addr and returns a push driver that streams chunks to
// it verbatim (no framing: the connection boundary is the framing, one
// write per chunk).
func NewNetPush(mx *voice.Mixer, addr string, mailboxSize int, logger *log.Logger) (*NetPush, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net driver: dial %s: %w", addr, err)
	}
	write := func(chunk []byte) error {
		_, err := conn.Write(chunk)
		return err
	}
	return &NetPush{Push: NewPush(mx, write, mailboxSize, logger), conn: conn}, nil
}

// Close joins the push driver's goroutine and closes the connection.
func (n *NetPush) Close() error {
	err := n.Push.Close()
	if cErr := n.conn.Close(); err == nil {
		err = cErr
	}
	return err
}

// Announce advertises a NetPush sink over mDNS so LAN clients can discover
// it without a configured address, grounded on the teacher's use of
// dnssd for appserver service discovery.
type Announce struct {
	responder dnssd.Responder
	cancel    context.CancelFunc
	done      chan error
}

// NewAnnounce registers an mDNS service of the given name and type (e.g.
// "_soundmix._tcp") on port and starts responding to queries in the
// background. Call Shutdown to withdraw the advertisement.
func NewAnnounce(ctx context.Context, name, serviceType string, port int) (*Announce, error) {
	cfg := dnssd.Config{
		Name: name,
		Type: serviceType,
		Port: port,
	}
	service, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("announce: build service: %w", err)
	}
	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("announce: build responder: %w", err)
	}
	if _, err := responder.Add(service); err != nil {
		return nil, fmt.Errorf("announce: add service: %w", err)
	}

	respondCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- responder.Respond(respondCtx)
	}()

	return &Announce{responder: responder, cancel: cancel, done: done}, nil
}

// Shutdown withdraws the advertisement and waits for the responder
// goroutine to exit.
func (a *Announce) Shutdown() error {
	a.cancel()
	return <-a.done
}
