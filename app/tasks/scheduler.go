package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clipfeed/app/archive"
	"clipfeed/app/cache"
	"clipfeed/app/config"
	"clipfeed/app/extract"
	"clipfeed/app/feed"
	"clipfeed/app/fetch"
	"clipfeed/app/notion"
	"clipfeed/app/translate"
)

const taskTimeout = 10 * time.Minute

// Scheduler periodically enqueues one ProcessFeedTask per subscription and
// runs them on a single worker. Sequential execution keeps the pipeline
// polite towards origin sites and well under API rate limits.
type Scheduler struct {
	subscriptions []config.Subscription
	feedConfig    config.Config
	client        *fetch.Client
	parser        *feed.Parser
	extractor     *extract.Extractor
	translator    translate.Provider
	publisher     *notion.Publisher
	archiver      *archive.Writer
	seen          *cache.SeenCache
	interval      time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(subscriptions []config.Subscription, feedConfig config.Config,
	client *fetch.Client, parser *feed.Parser, extractor *extract.Extractor,
	translator translate.Provider, publisher *notion.Publisher,
	archiver *archive.Writer, seen *cache.SeenCache, interval time.Duration) *Scheduler {

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		subscriptions: subscriptions,
		feedConfig:    feedConfig,
		client:        client,
		parser:        parser,
		extractor:     extractor,
		translator:    translator,
		publisher:     publisher,
		archiver:      archiver,
		seen:          seen,
		interval:      interval,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 300),
	}
}

// Start launches the worker and the polling loop. The first cycle begins
// immediately.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.worker()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

// RunOnce processes every subscription a single time on the calling
// goroutine, for one-shot invocations.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var firstErr error
	for _, subscription := range s.subscriptions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		task := s.newTask(subscription)
		task.Start()
		if err := task.Execute(ctx); err != nil {
			slog.Error("Feed processing failed", "feed", subscription.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) newTask(subscription config.Subscription) *ProcessFeedTask {
	return NewProcessFeedTask(subscription, s.feedConfig, s.client, s.parser,
		s.extractor, s.translator, s.publisher, s.archiver, s.seen)
}

func (s *Scheduler) enqueueTasks() {
	if len(s.subscriptions) == 0 {
		slog.Debug("No subscriptions configured")
		return
	}

	slog.Debug("Scheduling feed tasks", "count", len(s.subscriptions))

	for _, subscription := range s.subscriptions {
		if err := s.EnqueueTask(s.newTask(subscription)); err != nil {
			slog.Warn("Failed to enqueue task", "feed", subscription.Name(), "error", err)
		}
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Task execution failed", "type", string(task.GetType()),
		"feed", task.GetFeedName(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()),
			"feed", task.GetFeedName(), "retry_count", task.GetRetryCount())
		return
	}

	task.IncrementRetryCount()
	retryDelay := min(time.Duration(1<<uint(task.GetRetryCount()-1))*time.Second, 30*time.Second)
	slog.Warn("Task retry scheduled", "type", string(task.GetType()),
		"feed", task.GetFeedName(), "retry_count", task.GetRetryCount(), "delay", retryDelay.String())

	// The retry goroutine joins the WaitGroup so Stop cannot close the
	// queue while a re-enqueue is still pending.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(retryDelay):
		}
		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry",
				"feed", task.GetFeedName(), "error", retryErr)
		}
	}()
}
