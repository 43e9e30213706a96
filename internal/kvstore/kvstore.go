// Package kvstore provides the byte-level key/value backends that hold
// voucher and partner records. Callers own key namespacing and encoding.
package kvstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrMalformed is returned by CompareAndSwap when the stored value is not
	// a JSON object.
	ErrMalformed = errors.New("kvstore: stored value is not a JSON object")
)

type Store interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// SetNX writes value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	// CompareAndSwap atomically replaces the value at key with value if the
	// stored JSON object's top-level string field equals expected. It reports
	// whether the swap happened and returns ErrNotFound when key is absent.
	CompareAndSwap(ctx context.Context, key, field, expected string, value []byte) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
