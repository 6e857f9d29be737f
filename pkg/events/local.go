package events

import (
	"context"
	"errors"
	"sync"
)

// Local delivers events to in-process handlers. It stands in for the NATS
// bus when EVENTS_ENABLED is false or NATS is unreachable.
type Local struct {
	mu       sync.RWMutex
	handlers []Handler
}

var _ Publisher = (*Local)(nil)

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Subscribe(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// Publish runs every handler and joins their errors.
func (l *Local) Publish(ctx context.Context, event Event) error {
	l.mu.RLock()
	handlers := append([]Handler(nil), l.handlers...)
	l.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
