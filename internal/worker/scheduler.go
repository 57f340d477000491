// Package worker runs the background jobs of the tracker on cron schedules.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"rupeetrack/internal/log"
)

// Job is a named unit of background work. Run reports how many items it
// processed.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (int, error)
}

// Scheduler runs registered jobs on their cron schedules. A job that is still
// running when its next tick arrives is skipped, and panics are recovered.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger

	mu   sync.RWMutex
	ctx  context.Context
	jobs map[string]Job
}

func NewScheduler(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentWorker)
	cl := cronLogger{logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
		ctx:    context.Background(),
		jobs:   map[string]Job{},
	}
}

// Add registers job. An empty schedule leaves the job available to RunNow
// only.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job needs a name and a run function")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("job %s already registered", job.Name)
	}

	if job.Schedule != "" {
		if _, err := s.cron.AddFunc(job.Schedule, func() { s.execute(s.runContext(), job) }); err != nil {
			return fmt.Errorf("schedule job %s (%q): %w", job.Name, job.Schedule, err)
		}
	}
	s.jobs[job.Name] = job

	s.logger.Info("Registered job", log.FieldJob, job.Name, log.FieldSchedule, job.Schedule)
	return nil
}

// RunNow executes the named job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) (int, error) {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("unknown job %s", name)
	}
	return s.execute(ctx, job)
}

// Scheduled reports how many jobs are on a cron schedule.
func (s *Scheduler) Scheduled() int {
	return len(s.cron.Entries())
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.InfoContext(ctx, "Scheduler started", log.FieldCount, s.Scheduled())

	<-ctx.Done()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
	return nil
}

func (s *Scheduler) runContext() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

func (s *Scheduler) execute(ctx context.Context, job Job) (int, error) {
	start := time.Now()
	n, err := job.Run(ctx)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		s.logger.ErrorContext(ctx, "Job failed",
			log.FieldJob, job.Name,
			log.FieldCount, n,
			log.FieldDuration, duration,
			log.FieldError, err)
		return n, err
	}
	s.logger.InfoContext(ctx, "Job complete",
		log.FieldJob, job.Name,
		log.FieldCount, n,
		log.FieldDuration, duration)
	return n, nil
}

// cronLogger adapts log.Logger to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, log.FieldError, err)...)
}
