package events

import (
	"context"
	"sync"
)

// ISubscription delivers events of type T to one subscriber
type ISubscription[T any] interface {
	// Chan returns a read-only channel for self-handling events
	Chan() <-chan T
	// Cancel unsubscribes and closes the channel. Safe for repeated calls
	Cancel()
	// Watch starts a goroutine that calls cb on each event.
	// When parentCtx finishes, the subscription is automatically cancelled
	Watch(parentCtx context.Context, cb func(T)) ISubscription[T]
}

// ISubscriptionManager fans events out to subscribers
type ISubscriptionManager[T any] interface {
	Subscribe() ISubscription[T]
	Emit(ctx context.Context, event T)
}

type Subscription[T any] struct {
	ch     chan T
	mgr    *SubscriptionManager[T]
	cancel context.CancelFunc
	once   sync.Once
}

// Chan returns a read-only channel for self-handling events.
func (s *Subscription[T]) Chan() <-chan T { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mgr.unsubscribe(s.ch)
	})
}

// Watch starts a goroutine that calls cb on each event.
func (s *Subscription[T]) Watch(parentCtx context.Context, cb func(T)) ISubscription[T] {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancel = cancel

	go func(ctx context.Context) {
		defer s.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-s.ch:
				if !ok {
					return
				}
				cb(event)
			}
		}
	}(ctx)

	return s
}

// SubscriptionManager delivers each event to every subscriber without
// blocking. A subscriber whose buffer is full misses the event.
type SubscriptionManager[T any] struct {
	mu          sync.RWMutex
	buffer      int
	subscribers map[chan T]struct{}
}

// NewSubscriptionManager creates a manager whose subscriptions buffer up to buffer events
func NewSubscriptionManager[T any](buffer int) *SubscriptionManager[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &SubscriptionManager[T]{
		buffer:      buffer,
		subscribers: make(map[chan T]struct{}),
	}
}

func (m *SubscriptionManager[T]) Subscribe() ISubscription[T] {
	ch := make(chan T, m.buffer)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &Subscription[T]{ch: ch, mgr: m}
}

func (m *SubscriptionManager[T]) unsubscribe(ch chan T) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Emit sends event to all subscribers (non-blocking if their channel is full).
func (m *SubscriptionManager[T]) Emit(ctx context.Context, event T) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		select {
		case <-ctx.Done():
			return
		case sub <- event:
		default:
		}
	}
}

// Len returns the number of active subscriptions
func (m *SubscriptionManager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}
