package codec

import "fmt"

// Limit wraps another codec and rejects oversized payloads at Decode
// time. Encode is forwarded unchanged. A shared cache can hand back a
// blob far larger than anything this process wrote; bounding the decode
// side keeps such an entry from allocating unbounded memory.
//
// If MaxDecode <= 0 size limiting is disabled.
type Limit[V any] struct {
	// Codec is the underlying codec being wrapped. It must be set.
	Codec Codec[V]
	// MaxDecode is the maximum permitted payload length in bytes.
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Codec.Encode(v) }

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Codec.Decode(b)
}
