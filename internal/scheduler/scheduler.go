package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"SessionChart/internal/model"
)

// Runner is the batch job the scheduler fires.
type Runner interface {
	Run(ctx context.Context) (*model.RunReport, error)
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a new Scheduler with a seconds-enabled cron parser.
func NewScheduler(ctx context.Context, runner Runner) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		Runner: runner,
		Ctx:    ctx,
	}
}

// RegisterAll registers the daily batch.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	slog.Info("daily batch registered", "cron", dailyCron)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunNow executes the daily batch immediately (for manual trigger / RUN_ON_START).
// It reports false when a batch is already running.
func (s *Scheduler) RunNow() bool {
	return s.dailyTaskOnce()
}

func (s *Scheduler) dailyTask() { s.dailyTaskOnce() }

func (s *Scheduler) dailyTaskOnce() bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Warn("batch still running, skipping trigger")
		return false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	slog.Info("running daily batch")
	report, err := s.Runner.Run(s.Ctx)
	if err != nil {
		slog.Error("daily batch failed", "err", err)
		return true
	}
	slog.Info("daily batch done", "run", report.RunID, "status", report.Status())
	return true
}

// cronLogger routes cron's own messages through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
