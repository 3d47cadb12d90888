// Package eventbus broadcasts state snapshots to subscribers.
package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"
)

// Handler receives published values.
type Handler[T any] func(T)

// Bus delivers the most recently published value to every subscriber.
//
// Values are delivered by a single dispatcher goroutine, in publish order.
// When subscribers are slower than publishers, intermediate values are
// coalesced: a subscriber may skip a value but never sees an older value
// after a newer one, and always ends up with the latest one.
//
// Publish never blocks, so it is safe to call while holding the lock that
// guards the published state.
type Bus[T any] struct {
	mu       sync.Mutex
	handlers map[int]Handler[T]
	nextID   int
	pending  T
	hasValue bool
	closed   bool

	signal chan struct{}
	quit   chan struct{}
	logger *slog.Logger
}

// New creates a Bus and starts its dispatcher.
func New[T any](logger *slog.Logger) *Bus[T] {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bus[T]{
		handlers: make(map[int]Handler[T]),
		signal:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
		logger:   logger,
	}

	go b.dispatch()

	return b
}

// Publish queues value for delivery, replacing any value not yet delivered.
func (b *Bus[T]) Publish(value T) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending = value
	b.hasValue = true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
		// dispatcher already signalled; it will pick up the new value
	}
}

// Subscribe registers handler and returns a func that removes it.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// Close stops the dispatcher. Values published afterwards are dropped and
// the dispatcher makes no further handler calls for the value in flight.
// Close does not wait for a running handler, so a handler may call it.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	close(b.quit)
}

func (b *Bus[T]) dispatch() {
	for {
		select {
		case <-b.signal:
			b.mu.Lock()
			if !b.hasValue || b.closed {
				b.mu.Unlock()
				continue
			}
			value := b.pending
			b.hasValue = false
			handlers := make([]Handler[T], 0, len(b.handlers))
			for id := 0; id < b.nextID; id++ {
				if h, ok := b.handlers[id]; ok {
					handlers = append(handlers, h)
				}
			}
			b.mu.Unlock()

			for _, h := range handlers {
				if b.isClosed() {
					break
				}
				b.deliver(h, value)
			}

		case <-b.quit:
			return
		}
	}
}

func (b *Bus[T]) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Bus[T]) deliver(h Handler[T], value T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
		}
	}()
	h(value)
}
