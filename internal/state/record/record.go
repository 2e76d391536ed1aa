// Package record defines the durable key-value backing used by client state
// stores. Implementations (bbolt, sqlite) live in subpackages.
package record

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Store persists named records as opaque serialized payloads.
//
// Keys are fixed string identifiers owned by the state layer; payload
// encoding is the caller's concern.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Close() error
}
