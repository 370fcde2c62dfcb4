// Package codec serializes values for the byte-backed store and cache
// adapters. The decorator itself never touches bytes; adapters that persist
// to Redis, Postgres, BigCache and friends pick a Codec at construction.
//
// Every codec must round-trip: Decode(Encode(v)) yields a value equal to v
// for the adapter's purposes. Pick one codec per keyspace and stick with
// it — mixing codecs under one prefix turns old entries into decode
// failures (which cache adapters then self-heal by deletion, and store
// adapters surface as errors).
package codec

// Codec encodes and decodes values V to and from []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
