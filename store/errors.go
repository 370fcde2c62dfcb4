package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuchKey marks the absence of a requested key on a fail-fast read.
// Match with errors.Is; the concrete *NoSuchKeyError carries the key(s).
var ErrNoSuchKey = errors.New("store: no such key")

// NoSuchKeyError is returned by GetOrFail and GetMultipleOrFail when one or
// more requested keys are absent. Keys holds every absent key in request
// order.
type NoSuchKeyError struct {
	Keys []string
}

func (e *NoSuchKeyError) Error() string {
	switch len(e.Keys) {
	case 0:
		return "store: no such key"
	case 1:
		return fmt.Sprintf("store: no such key %q", e.Keys[0])
	default:
		return fmt.Sprintf("store: no such keys: %s", strings.Join(e.Keys, ", "))
	}
}

func (e *NoSuchKeyError) Unwrap() error { return ErrNoSuchKey }

// Missing builds the error an adapter should return for absent keys.
func Missing(keys ...string) *NoSuchKeyError {
	return &NoSuchKeyError{Keys: keys}
}
