package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/sellerdesk/pddcs/internal/message"
)

// ErrClosed is returned by Pop once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Queue is the unbounded FIFO hand-off between the streaming receive loop
// and the dispatch loop. Push never blocks, so a slow human-paced consumer
// can never back-pressure the websocket reader into a deadlock.
type Queue struct {
	mu     sync.Mutex
	items  []*message.UserMessage
	signal chan struct{}
	closed bool
}

func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

func (q *Queue) Push(msg *message.UserMessage) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()
	q.notify()
}

// Close marks the producer side finished. Items already queued remain
// readable; Pop returns ErrClosed once drained.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
}

// Pop blocks until an item is available, the queue is closed and drained,
// or ctx is cancelled.
func (q *Queue) Pop(ctx context.Context) (*message.UserMessage, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items = q.items[1:]
			remaining := len(q.items)
			q.mu.Unlock()
			if remaining > 0 {
				q.notify()
			}
			return msg, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
