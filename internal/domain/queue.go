package domain

import (
	"context"
	"time"
)

// Task kinds accepted by the dispatcher.
const TaskSubscriptionNotification = "SubscriptionNotification"

// Task is a unit of background work handed to the dispatcher.
type Task struct {
	ID         string
	Kind       string
	Payload    any
	EnqueuedAt time.Time
}

// TaskQueue accepts background tasks. Enqueue must not block the caller;
// delivery is best-effort and runs outside the caller's transaction.
type TaskQueue interface {
	Enqueue(kind string, payload any) error
}

// TaskHandler processes a task of a registered kind.
type TaskHandler func(ctx context.Context, task *Task) error
