package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
)

// Action is a job body. Errors are logged at the dispatch boundary and
// never propagate to the tick loop.
type Action func(ctx context.Context) error

type job struct {
	name      string
	trigger   Trigger
	action    Action
	lastFired time.Time
}

// Scheduler evaluates registered jobs against the current time on every
// tick and dispatches due ones onto a bounded worker pool. Dispatch is
// fire-and-forget: a slow job never delays the tick loop or other jobs.
type Scheduler struct {
	logger logger.Logger
	pool   *ants.Pool

	mu   sync.Mutex
	jobs []*job
}

func New(log logger.Logger, poolSize int) (*Scheduler, error) {
	s := &Scheduler{
		logger: log.WithComponent("JobScheduler"),
	}

	// Non-blocking submit: a saturated pool drops the firing instead of
	// stalling the tick loop.
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

// Register adds a recurring job. Jobs live for the process lifetime.
func (s *Scheduler) Register(name string, trigger Trigger, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &job{name: name, trigger: trigger, action: action})
	s.logger.Info("Registered job", "job", name, "trigger", trigger.String())
}

// Tick evaluates all jobs against now, dispatching each due job at most
// once per matching instant. Missed instants are never back-filled.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []*job
	for _, j := range s.jobs {
		if j.trigger.Due(now, j.lastFired) {
			j.lastFired = now
			due = append(due, j)
		}
	}
	s.mu.Unlock()

	for _, j := range due {
		s.dispatch(ctx, j, now)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, j *job, now time.Time) {
	name := j.name
	action := j.action

	err := s.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Job panicked", "job", name, "panic", r)
			}
		}()

		s.logger.Info("Running job", "job", name, "fired_at", now.Format(time.RFC3339))
		if err := action(ctx); err != nil {
			s.logger.Error("Job failed", "job", name, "error", err)
			return
		}
		s.logger.Info("Job finished", "job", name)
	})
	if err != nil {
		// The firing is consumed either way, same as an instant missed
		// while the process is down.
		s.logger.Warn("Dispatch dropped, worker pool saturated", "job", name, "error", err)
	}
}

// JobCount returns the number of registered jobs.
func (s *Scheduler) JobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Release shuts the worker pool down. In-flight jobs are not awaited.
func (s *Scheduler) Release() {
	s.pool.Release()
}
