package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type TaskType string

const TaskTypeProcessFeed TaskType = "process_feed"

const DefaultMaxRetries = 3

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetFeedName() string
	GetRetryCount() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

// Task carries the bookkeeping shared by every task kind: identity, retry
// accounting and timing.
type Task struct {
	ID         string
	Type       TaskType
	FeedName   string
	RetryCount int
	MaxRetries int
	startedAt  time.Time
}

func NewTask(taskType TaskType, feedName string) Task {
	return Task{
		ID:         fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000)),
		Type:       taskType,
		FeedName:   feedName,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) GetID() string        { return t.ID }
func (t *Task) GetType() TaskType    { return t.Type }
func (t *Task) GetFeedName() string  { return t.FeedName }
func (t *Task) GetRetryCount() int   { return t.RetryCount }
func (t *Task) IncrementRetryCount() { t.RetryCount++ }
func (t *Task) CanRetry() bool       { return t.RetryCount < t.MaxRetries }
func (t *Task) Start()               { t.startedAt = time.Now() }

func (t *Task) GetDuration() time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	return time.Since(t.startedAt)
}
