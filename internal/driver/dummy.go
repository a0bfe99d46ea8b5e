package driver

import "github.com/doismellburning/soundmix/internal/voice"

// Dummy is the fallback output driver: it pulls chunks from the mixer (so
// generators still advance and exhaustion still happens) but discards the
// audio instead of writing it anywhere. It is always constructible, which
// is what lets Open guarantee a non-error result when the dummy fallback
// is permitted, per spec section 9.
type Dummy struct {
	*Pull
}

// NewDummy builds a dummy driver over mx.
func NewDummy(mx *voice.Mixer) *Dummy {
	return &Dummy{Pull: NewPull(mx)}
}

// Discard advances the mixer by one chunk and throws the result away. A
// caller wanting the dummy driver to actually run the mix loop (rather
// than just accept Submit calls) should call this in its own loop, e.g.
// on a ticker at the chunk's real-time duration.
func (d *Dummy) Discard() error {
	buf := make([]byte, d.mx.ChunkSize())
	return d.Callback(buf)
}
