package resource

import (
	"context"
	"errors"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/session"
)

type Subscriber interface {
	Subscribe(fn session.Observer) func()
}

// Enqueuer hands work to the background worker.
type Enqueuer interface {
	Enqueue(jobType string, run func(context.Context) error) bool
}

// Refresher is a store that can refill and drop its collection.
type Refresher interface {
	Refresh(ctx context.Context) error
	Clear()
}

// Refresh refetches the collection with no query.
func (s *Store[T]) Refresh(ctx context.Context) error {
	_, err := s.Fetch(ctx, nil)
	if errors.Is(err, ErrStale) {
		return nil
	}
	return err
}

// AutoFetch refreshes target every time the session becomes authenticated
// with one of roles, including account switches. Sign-out, or a switch to
// an identity without one of roles, clears it.
func AutoFetch(name string, target Refresher, sess Subscriber, q Enqueuer, roles ...auth.Role) func() {
	return sess.Subscribe(func(snap session.Snapshot) {
		switch snap.State {
		case session.Authenticated:
			if snap.Role().In(roles...) {
				q.Enqueue(name+".autofetch", target.Refresh)
			} else {
				target.Clear()
			}
		case session.Anonymous:
			target.Clear()
		}
	})
}
