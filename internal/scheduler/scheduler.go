// Package scheduler dispatches crawl tasks to a bounded worker pool.
package scheduler

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/furnishdata/catalogue-crawler/internal/crawler"
)

// Handler processes one fetched response and returns follow-up tasks. This is
// how category recursion and the detail→review chain are expressed: as task
// chains, not nested blocking calls. Handlers run to completion without
// preemption and must be safe for concurrent calls.
type Handler interface {
	Handle(ctx context.Context, task crawler.CrawlTask, res crawler.FetchResponse, fetchErr error) []crawler.CrawlTask
}

// Config controls scheduler behavior.
type Config struct {
	Concurrency int
}

// Scheduler owns the task queue and the worker pool. Fetches are issued
// concurrently up to the configured limit; everything between two fetches is
// synchronous.
//
// Cancellation is two-phase: once the run context ends, no new
// category/listing/detail work is accepted or started, but review-fetch tasks
// keep flowing so every in-flight detail/review pair finishes and no
// partially built record is persisted.
type Scheduler struct {
	fetcher crawler.Fetcher
	handler Handler
	cfg     Config
	logger  *zap.Logger

	mu          sync.Mutex
	cond        *sync.Cond
	queue       []crawler.CrawlTask
	outstanding int
	draining    bool
}

// New creates a Scheduler.
func New(fetcher crawler.Fetcher, handler Handler, cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	s := &Scheduler{
		fetcher: fetcher,
		handler: handler,
		cfg:     cfg,
		logger:  logger,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Run seeds the queue and blocks until it drains. It returns once every
// accepted task, including follow-ups emitted by handlers, has completed.
func (s *Scheduler) Run(ctx context.Context, seeds []crawler.CrawlTask) {
	accepted := 0
	for _, task := range seeds {
		if s.submit(task) {
			accepted++
		}
	}
	if accepted == 0 {
		return
	}

	stop := context.AfterFunc(ctx, s.beginDrain)
	defer stop()

	// Review fetches issued after cancellation still need a live context.
	fetchCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(fetchCtx)
		}()
	}
	wg.Wait()
}

// submit queues a task. During drain only review-fetch tasks are accepted.
func (s *Scheduler) submit(task crawler.CrawlTask) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining && task.Kind != crawler.TaskReviews {
		return false
	}
	s.queue = append(s.queue, task)
	s.outstanding++
	s.cond.Signal()
	return true
}

func (s *Scheduler) beginDrain() {
	s.mu.Lock()
	s.draining = true
	// Drop queued tasks that have not started yet, keeping review fetches so
	// in-flight pairs can complete.
	kept := s.queue[:0]
	dropped := 0
	for _, task := range s.queue {
		if task.Kind == crawler.TaskReviews {
			kept = append(kept, task)
		} else {
			dropped++
		}
	}
	s.queue = kept
	s.outstanding -= dropped
	s.cond.Broadcast()
	s.mu.Unlock()

	if dropped > 0 {
		s.logger.Info("run canceled, dropped queued tasks", zap.Int("dropped", dropped))
	}
}

// next blocks until a task is available or the queue has fully drained.
func (s *Scheduler) next() (crawler.CrawlTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && s.outstanding > 0 {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return crawler.CrawlTask{}, false
	}
	task := s.queue[0]
	s.queue = s.queue[1:]
	return task, true
}

// finish marks one task complete and wakes idle workers when the run is done.
func (s *Scheduler) finish() {
	s.mu.Lock()
	s.outstanding--
	if s.outstanding == 0 {
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *Scheduler) worker(ctx context.Context) {
	for {
		task, ok := s.next()
		if !ok {
			return
		}
		s.process(ctx, task)
		s.finish()
	}
}

func (s *Scheduler) process(ctx context.Context, task crawler.CrawlTask) {
	crawler.TotalFetches.WithLabelValues(string(task.Kind)).Inc()

	res, err := s.fetcher.Fetch(ctx, crawler.FetchRequest{
		URL:     task.URL,
		Method:  task.Method,
		Headers: task.Headers,
		Body:    task.Body,
	})
	if err != nil {
		crawler.TotalFetchErrors.WithLabelValues(string(task.Kind)).Inc()
	}

	followUps := s.handler.Handle(ctx, task, res, err)
	for _, followUp := range followUps {
		if !s.submit(followUp) {
			s.logger.Debug("follow-up task rejected during drain",
				zap.String("kind", string(followUp.Kind)),
				zap.String("url", followUp.URL),
			)
		}
	}
}
