// Package wire frames cache entries for byte-backed adapters.
//
// The envelope lets an adapter validate that bytes under its keyspace were
// written by cachekv (magic + version) and carry a per-entry expiry for
// backends without native per-key TTL. Decoding is strict: truncated input,
// trailing bytes, or a bad header fail with ErrCorrupt so the adapter can
// delete the entry and treat the read as a miss.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

// header: magic(4) | ver(1) | exp(u64 be, unix nanos; 0 = none) | vlen(u32 be)
const headerLen = 4 + 1 + 8 + 4

var (
	ErrCorrupt = errors.New("cachekv: corrupt cache entry")
	magic4     = [...]byte{'C', 'K', 'V', 'E'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// EncodeEntry frames payload with an optional absolute expiry.
// expireAt is unix nanoseconds; <= 0 means the entry carries no expiry.
func EncodeEntry(expireAt int64, payload []byte) []byte {
	if expireAt < 0 {
		expireAt = 0
	}

	var buf bytes.Buffer
	buf.Grow(headerLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(expireAt))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeEntry parses a framed entry. The returned payload aliases b
// (zero-copy); callers that retain it past b's lifetime must copy.
func DecodeEntry(b []byte) (expireAt int64, payload []byte, err error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version {
		return 0, nil, ErrCorrupt
	}

	off := 5

	exp := binary.BigEndian.Uint64(b[off : off+8])
	off += 8
	if exp > 1<<63-1 {
		return 0, nil, ErrCorrupt
	}

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off { // strict: no truncation, no trailing bytes
		return 0, nil, ErrCorrupt
	}

	return int64(exp), b[off : off+vlen], nil
}
