// Package storage persists the small set of client-side values (bearer token,
// cached identity) that survive a console restart.
package storage

import (
	"context"
	"errors"
)

var (
	ErrClosed = errors.New("storage closed")
	// ErrUnreadable means a value is present but cannot be opened, for
	// instance after the sealing key changed.
	ErrUnreadable = errors.New("stored value unreadable")
)

// Storage is a string key/value store. Get reports false for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Reader is the read-only view handed to components that must not write.
type Reader interface {
	Get(ctx context.Context, key string) (string, bool, error)
}
