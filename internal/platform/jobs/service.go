// Package jobs runs background work off the request path on a single worker
// fed by a bounded queue.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hrconsole/internal/platform/metrics"
)

const DefaultQueueSize = 128

type Run struct {
	Type      string        `json:"type"`
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
}

type Service struct {
	log   zerolog.Logger
	queue chan job

	mu   sync.Mutex
	runs map[string]Run
}

type job struct {
	Type string
	Run  func(context.Context) error
}

func New(size int, log zerolog.Logger) *Service {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Service{
		log:   log,
		queue: make(chan job, size),
		runs:  map[string]Run{},
	}
}

// Start launches the worker; it stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue schedules run without blocking. It reports false, and counts the
// drop, when the queue is full.
func (s *Service) Enqueue(jobType string, run func(context.Context) error) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		metrics.JobsDroppedTotal.WithLabelValues(jobType).Inc()
		s.log.Warn().Str("jobType", jobType).Msg("job queue full")
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) error) error {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Runs returns the latest outcome per job type.
func (s *Service) Runs() map[string]Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Run, len(s.runs))
	for k, v := range s.runs {
		out[k] = v
	}
	return out
}

func (s *Service) Pending() int {
	return len(s.queue)
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if err := s.runJob(ctx, j); err != nil {
				s.log.Warn().Err(err).Str("jobType", j.Type).Msg("job run failed")
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) error {
	started := time.Now()
	err := j.Run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	run := s.runs[j.Type]
	run.Type = j.Type
	run.StartedAt = started
	run.Duration = time.Since(started)
	run.Status = "completed"
	run.Error = ""
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
		run.Failed++
	} else {
		run.Completed++
	}
	s.runs[j.Type] = run
	return err
}
