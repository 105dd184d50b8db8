package relay

import (
	"context"
	"sync"
)

// Queue is a bounded FIFO with a single consumer. Peek parks the head so the
// consumer can inspect it before deciding to Take it.
type Queue[T any] struct {
	name  string
	slots chan struct{}
	items chan T

	mu   sync.Mutex
	head *T
}

func NewQueue[T any](name string, capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{
		name:  name,
		slots: make(chan struct{}, capacity),
		items: make(chan T, capacity),
	}
}

func (q *Queue[T]) Name() string { return q.name }

// Offer blocks until there is room for v or ctx is done.
func (q *Queue[T]) Offer(ctx context.Context, v T) error {
	select {
	case q.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	q.items <- v
	return nil
}

// Take blocks until an item is available or ctx is done.
func (q *Queue[T]) Take(ctx context.Context) (T, error) {
	q.mu.Lock()
	if q.head != nil {
		v := *q.head
		q.head = nil
		q.mu.Unlock()
		<-q.slots
		return v, nil
	}
	q.mu.Unlock()

	select {
	case v := <-q.items:
		<-q.slots
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the head without removing it, false when the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head != nil {
		return *q.head, true
	}
	select {
	case v := <-q.items:
		q.head = &v
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *Queue[T]) Len() int { return len(q.slots) }

func (q *Queue[T]) Cap() int { return cap(q.slots) }

func (q *Queue[T]) Free() int { return cap(q.slots) - len(q.slots) }
