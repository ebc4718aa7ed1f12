package storage

import (
	"context"
	"fmt"

	"hrconsole/internal/platform/crypto"
)

// Sealed encrypts values before they reach the wrapped storage.
type Sealed struct {
	inner  Storage
	sealer *crypto.Sealer
}

func NewSealed(inner Storage, sealer *crypto.Sealer) Storage {
	if !sealer.Configured() {
		return inner
	}
	return &Sealed{inner: inner, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return value, ok, err
	}
	plain, err := s.sealer.Open(value)
	if err != nil {
		return "", false, fmt.Errorf("open %s: %w: %w", key, ErrUnreadable, err)
	}
	return plain, true, nil
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}
