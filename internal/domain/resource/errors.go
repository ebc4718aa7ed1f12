package resource

import "errors"

var (
	// ErrStale is returned by a fetch whose response arrived after a newer
	// fetch was dispatched. The collection is left as the newer fetch set it.
	ErrStale = errors.New("stale fetch response discarded")

	ErrUnexpectedShape = errors.New("unexpected response shape")
	ErrMissingID       = errors.New("record id is required")
)
