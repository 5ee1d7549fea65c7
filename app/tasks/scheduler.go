package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yab007-glitch/linkedinto/app/articles"
	"github.com/yab007-glitch/linkedinto/app/cfg"
	"github.com/yab007-glitch/linkedinto/app/database"
	"github.com/yab007-glitch/linkedinto/app/post"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrCycleInFlight = errors.New("cycle already in flight")

type Scheduler struct {
	sourceCache     *articles.SourceCache
	articleRepo     database.ArticleRepository
	automationRepo  database.AutomationRepository
	queue           *post.Queue
	clock           *post.Clock
	scorer          *post.Scorer
	generator       ContentGenerator
	publisher       Publisher
	notifier        Notifier
	fetcher         *articles.Fetcher
	extractor       *articles.Extractor
	httpClient      *http.Client
	userAgent       string
	interval        time.Duration
	publishInterval time.Duration
	workerCount     int
	minScore        int
	autoApprove     int
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	taskQueue       chan TaskInterface

	// Source fetch bookkeeping lives in memory and is touched only by the
	// ticker goroutine. A restart simply refetches everything once.
	nextSourceFetch  map[string]time.Time
	lastPublishSweep time.Time

	// At most one generation cycle and one publish sweep may run at a time.
	// NextRun is only written at cycle completion, so without these flags a
	// slow LLM call would let every tick enqueue another cycle for the same
	// article. Cleared when the task finishes or exhausts its retries.
	generationInFlight atomic.Bool
	publishInFlight    atomic.Bool
}

func NewScheduler(sourceCache *articles.SourceCache, articleRepo database.ArticleRepository,
	automationRepo database.AutomationRepository, queue *post.Queue, clock *post.Clock, scorer *post.Scorer,
	generator ContentGenerator, publisher Publisher, notifier Notifier,
	fetcher *articles.Fetcher, extractor *articles.Extractor, httpClient *http.Client) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache:     sourceCache,
		articleRepo:     articleRepo,
		automationRepo:  automationRepo,
		queue:           queue,
		clock:           clock,
		scorer:          scorer,
		generator:       generator,
		publisher:       publisher,
		notifier:        notifier,
		fetcher:         fetcher,
		extractor:       extractor,
		httpClient:      httpClient,
		userAgent:       cfg.UserAgent,
		interval:        time.Duration(cfg.SchedulerInterval) * time.Second,
		publishInterval: time.Duration(cfg.PublishInterval) * time.Second,
		workerCount:     cfg.WorkerCount,
		minScore:        cfg.MinQualityScore,
		autoApprove:     cfg.AutoApproveScore,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 300),
		nextSourceFetch: make(map[string]time.Time),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

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

// EnqueueGeneration queues one generation cycle outside the regular
// schedule, used by the manual trigger endpoint. Refuses to queue a second
// cycle while one is still running.
func (s *Scheduler) EnqueueGeneration() error {
	if !s.generationInFlight.CompareAndSwap(false, true) {
		return ErrCycleInFlight
	}
	if err := s.EnqueueTask(s.newGenerateTask()); err != nil {
		s.generationInFlight.Store(false)
		return err
	}
	return nil
}

// EnqueuePublish queues one publish sweep outside the regular schedule.
// Refuses to queue a second sweep while one is still running.
func (s *Scheduler) EnqueuePublish() error {
	if !s.publishInFlight.CompareAndSwap(false, true) {
		return ErrCycleInFlight
	}
	if err := s.EnqueueTask(NewPublishDueTask(s.queue, s.publisher, s.notifier)); err != nil {
		s.publishInFlight.Store(false)
		return err
	}
	return nil
}

// markIdle clears the in-flight flag once a cycle will not run again
func (s *Scheduler) markIdle(taskType TaskType) {
	switch taskType {
	case TaskTypeGeneratePost:
		s.generationInFlight.Store(false)
	case TaskTypePublishDue:
		s.publishInFlight.Store(false)
	}
}

func (s *Scheduler) newGenerateTask() *GeneratePostTask {
	return NewGeneratePostTask(s.automationRepo, s.articleRepo, s.queue, s.clock, s.scorer,
		s.generator, s.notifier, s.minScore, s.autoApprove)
}

func (s *Scheduler) enqueueStartupTasks() {
	sources := s.sourceCache.GetSources()
	if len(sources) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sources))

	now := time.Now().UTC()

	for _, source := range sources {
		if !source.Settings.Enabled {
			slog.Debug("Source disabled, skipping startup fetch", "source", source.Name)
			continue
		}

		fetchTask := NewFetchArticlesTask(source, s.httpClient, s.fetcher, s.articleRepo, s.userAgent)
		if err := s.EnqueueTask(fetchTask); err != nil {
			slog.Warn("Failed to enqueue FetchArticlesTask", "source", source.Name, "error", err)
			continue
		}
		s.nextSourceFetch[source.Name] = now.Add(time.Duration(source.Settings.RefreshInterval) * time.Second)
	}
}

func (s *Scheduler) enqueueTasks() {
	now := time.Now().UTC()

	s.enqueueSourceTasks(now)
	s.enqueueGenerationTask(now)
	s.enqueuePublishTask(now)
}

func (s *Scheduler) enqueueSourceTasks(now time.Time) {
	sources := s.sourceCache.GetEnabledSources()
	if len(sources) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	for _, source := range sources {
		nextFetch, known := s.nextSourceFetch[source.Name]
		if known && nextFetch.After(now) {
			slog.Debug("Source not due for refresh yet", "source", source.Name, "next_fetch_at", nextFetch)
		} else {
			fetchTask := NewFetchArticlesTask(source, s.httpClient, s.fetcher, s.articleRepo, s.userAgent)
			if err := s.EnqueueTask(fetchTask); err != nil {
				slog.Warn("Failed to enqueue FetchArticlesTask", "source", source.Name, "error", err)
			} else {
				s.nextSourceFetch[source.Name] = now.Add(time.Duration(source.Settings.RefreshInterval) * time.Second)
			}
		}

		if source.Settings.ExtractContent {
			extractTask := NewExtractContentTask(source, s.httpClient, s.extractor, s.articleRepo, s.userAgent)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "source", source.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) enqueueGenerationTask(now time.Time) {
	config, err := s.automationRepo.GetConfig()
	if err != nil {
		slog.Warn("Failed to load automation config, skipping generation check", "error", err)
		return
	}

	if !s.clock.Due(now, *config) {
		return
	}

	if err := s.EnqueueGeneration(); err != nil {
		if errors.Is(err, ErrCycleInFlight) {
			slog.Debug("Generation cycle still running, skipping tick")
		} else {
			slog.Warn("Failed to enqueue GeneratePostTask", "error", err)
		}
	}
}

func (s *Scheduler) enqueuePublishTask(now time.Time) {
	if now.Sub(s.lastPublishSweep) < s.publishInterval {
		return
	}

	if err := s.EnqueuePublish(); err != nil {
		if errors.Is(err, ErrCycleInFlight) {
			slog.Debug("Publish sweep still running, skipping tick")
		} else {
			slog.Warn("Failed to enqueue PublishDueTask", "error", err)
		}
		return
	}
	s.lastPublishSweep = now
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err == nil {
		s.markIdle(task.GetType())
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if task.CanRetry() {
		task.IncrementRetryCount()
		retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}

		slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

		go func() {
			time.Sleep(retryDelay)
			select {
			case <-s.ctx.Done():
				slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
				return
			default:
				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					s.markIdle(task.GetType())
				}
			}
		}()
	} else {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.markIdle(task.GetType())
	}
}
