package flight

import "github.com/pthm/flight/lib/encoding"

// Codec is an alias for encoding.Codec for convenience.
type Codec = encoding.Codec

// NewCodec creates the payload codec used by the serializability probe.
func NewCodec() *Codec {
	return encoding.NewCodec()
}

// clonePoster is the default Poster: it clones the payload and discards
// the copy, which is all the debug probe needs.
type clonePoster struct {
	codec *Codec
}

func (p clonePoster) PostMessage(data any) error {
	_, err := p.codec.Clone(data)
	return err
}
