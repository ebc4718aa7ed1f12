package resource

import (
	"sync"
	"time"
)

const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs fn with the last value passed to Trigger once no further
// Trigger has arrived for the configured delay.
type Debouncer[P any] struct {
	delay time.Duration
	fn    func(P)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer[P any](delay time.Duration, fn func(P)) *Debouncer[P] {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer[P]{delay: delay, fn: fn}
}

func (d *Debouncer[P]) Trigger(p P) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		d.mu.Unlock()
		if current {
			d.fn(p)
		}
	})
}

// Stop cancels a pending call.
func (d *Debouncer[P]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
