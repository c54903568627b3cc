package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryQueue is an in-process queue. Handlers run on the publishing
// goroutine, so a message is fully handled when Publish returns.
// Published messages are also retained per subject up to a limit.
type MemoryQueue struct {
	mu       sync.RWMutex
	handlers map[string]MessageHandler
	retained map[string][][]byte
	limit    int
	closed   bool
}

// NewMemoryQueue creates an in-memory queue retaining up to 10000 messages per subject
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		handlers: make(map[string]MessageHandler),
		retained: make(map[string][][]byte),
		limit:    10000,
	}
}

// Publish delivers a copy of data to the subject's handler, if any
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return fmt.Errorf("queue closed")
	}
	msgs := q.retained[subject]
	if len(msgs) >= q.limit {
		q.mu.Unlock()
		return fmt.Errorf("subject full: %s", subject)
	}
	q.retained[subject] = append(msgs, dataCopy)
	handler := q.handlers[subject]
	q.mu.Unlock()

	if handler != nil {
		return handler(dataCopy)
	}
	return nil
}

// PublishBatch publishes messages one by one and counts successes
func (q *MemoryQueue) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	success := 0
	var lastErr error
	for _, msg := range messages {
		if err := q.Publish(ctx, msg.Subject, msg.Data); err != nil {
			lastErr = err
			continue
		}
		success++
	}
	if success == 0 && lastErr != nil {
		return 0, lastErr
	}
	return success, nil
}

// Subscribe registers the handler for a subject
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.handlers[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	q.handlers[subject] = handler
	return nil
}

// Unsubscribe removes the handler of a subject
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.handlers[subject]; !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	delete(q.handlers, subject)
	return nil
}

// Messages returns the retained messages of a subject
func (q *MemoryQueue) Messages(subject string) [][]byte {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([][]byte, len(q.retained[subject]))
	copy(out, q.retained[subject])
	return out
}

// Close drops handlers and retained messages
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.handlers = make(map[string]MessageHandler)
	q.retained = make(map[string][][]byte)
	return nil
}
