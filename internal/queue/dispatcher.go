// Package queue provides the in-process background task dispatcher. Tasks
// are handed off through a bounded channel and processed by a worker pool;
// delivery is best-effort and runs outside the enqueuer's request.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"meetapp/internal/domain"
)

// ErrQueueFull is returned by Enqueue when the task buffer is at capacity.
// Enqueue never blocks the caller.
var ErrQueueFull = errors.New("task queue is full")

// ErrUnknownKind is returned by Enqueue for a kind with no registered handler.
var ErrUnknownKind = errors.New("no handler registered for task kind")

// Dispatcher is a bounded in-process task queue with a fixed worker pool.
type Dispatcher struct {
	tasks   chan *domain.Task
	logger  *slog.Logger
	workers int

	mu       sync.RWMutex
	handlers map[string]domain.TaskHandler
}

// NewDispatcher creates a Dispatcher with the given buffer size and worker
// count. Values of 0 or less fall back to defaults.
func NewDispatcher(bufferSize, workers int, logger *slog.Logger) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		tasks:    make(chan *domain.Task, bufferSize),
		logger:   logger,
		workers:  workers,
		handlers: make(map[string]domain.TaskHandler),
	}
}

// Register installs the handler for a task kind. Must be called before Start.
func (d *Dispatcher) Register(kind string, handler domain.TaskHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = handler
}

// Enqueue implements domain.TaskQueue. It never blocks: a full buffer is an
// error the caller is expected to log and move on from.
func (d *Dispatcher) Enqueue(kind string, payload any) error {
	d.mu.RLock()
	_, ok := d.handlers[kind]
	d.mu.RUnlock()
	if !ok {
		return ErrUnknownKind
	}

	task := &domain.Task{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}
	select {
	case d.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start runs the worker pool until the context is canceled and all workers
// have drained. It blocks; run it in its own goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	d.logger.Info("task dispatcher started",
		slog.Int("workers", d.workers),
		slog.Int("buffer", cap(d.tasks)),
	)

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task := <-d.tasks:
					d.process(ctx, task)
				}
			}
		}()
	}
	wg.Wait()
	d.logger.Info("task dispatcher stopped")
}

func (d *Dispatcher) process(ctx context.Context, task *domain.Task) {
	d.mu.RLock()
	handler := d.handlers[task.Kind]
	d.mu.RUnlock()

	start := time.Now()
	if err := handler(ctx, task); err != nil {
		d.logger.Error("task failed",
			slog.String("task_id", task.ID),
			slog.String("kind", task.Kind),
			slog.String("error", err.Error()),
		)
		return
	}
	d.logger.Info("task processed",
		slog.String("task_id", task.ID),
		slog.String("kind", task.Kind),
		slog.Duration("duration", time.Since(start)),
	)
}
