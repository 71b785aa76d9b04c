// Package queue provides the orchestrator's worklist: a FIFO of product
// URLs with order-preserving deduplication. Two queue backends exist, an
// in-memory one and a Redis list for runs that should survive a restart.
package queue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one unit of work: a product URL to fetch and extract.
type Task struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Queue interface {
	Push(ctx context.Context, task *Task) error
	Pop(ctx context.Context) (*Task, error)
	Size(ctx context.Context) (int, error)
	Close() error
}

// InMemoryQueue is the default backend: a mutex-guarded FIFO slice.
type InMemoryQueue struct {
	mu     sync.Mutex
	tasks  []*Task
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{tasks: make([]*Task, 0)}
}

func (q *InMemoryQueue) Push(_ context.Context, task *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *InMemoryQueue) Pop(_ context.Context) (*Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		return nil, ErrQueueEmpty
	}

	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	return task, nil
}

func (q *InMemoryQueue) Size(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks), nil
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}

// Worklist wraps a Queue with trim-then-compare URL deduplication. The
// seen set is mutex-guarded so the worklist stays correct if processing
// is ever moved onto a worker pool.
type Worklist struct {
	queue Queue
	mu    sync.Mutex
	seen  map[string]struct{}
}

func NewWorklist(q Queue) *Worklist {
	return &Worklist{
		queue: q,
		seen:  make(map[string]struct{}),
	}
}

// Add enqueues a URL unless it is blank or was already queued or
// processed. It reports whether the URL was actually enqueued.
func (w *Worklist) Add(ctx context.Context, url string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, nil
	}

	w.mu.Lock()
	if _, dup := w.seen[url]; dup {
		w.mu.Unlock()
		return false, nil
	}
	w.seen[url] = struct{}{}
	w.mu.Unlock()

	task := &Task{
		ID:         uuid.New().String(),
		URL:        url,
		EnqueuedAt: time.Now(),
	}
	if err := w.queue.Push(ctx, task); err != nil {
		return false, err
	}
	return true, nil
}

// Next pops the next task, returning ErrQueueEmpty when no work is left.
func (w *Worklist) Next(ctx context.Context) (*Task, error) {
	return w.queue.Pop(ctx)
}

// SeenCount returns how many unique URLs have passed through the
// worklist.
func (w *Worklist) SeenCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}
