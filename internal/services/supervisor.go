package services

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// Supervisor runs the named long-lived engine loops. Each task gets its
// own panic isolation: a panicking task is logged with its stack and
// restarted after a short delay instead of taking the process down.
type Supervisor struct {
	logger       *slog.Logger
	restartDelay time.Duration
	tasks        []supervisedTask
	wg           sync.WaitGroup
}

type supervisedTask struct {
	name string
	run  func(ctx context.Context) error
}

func NewSupervisor(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Supervisor{
		logger:       logger,
		restartDelay: 5 * time.Second,
	}
}

func (s *Supervisor) Add(name string, run func(ctx context.Context) error) {
	s.tasks = append(s.tasks, supervisedTask{name: name, run: run})
}

// Start launches every registered task. Tasks run until the context is
// cancelled; Wait joins them.
func (s *Supervisor) Start(ctx context.Context) {
	for _, task := range s.tasks {
		s.wg.Add(1)
		go func(task supervisedTask) {
			defer s.wg.Done()
			s.supervise(ctx, task)
		}(task)
	}
}

func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) supervise(ctx context.Context, task supervisedTask) {
	for {
		err := s.runIsolated(ctx, task)
		if err != nil {
			s.logger.Error("background task failed",
				"task", task.name,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("background task stopped", "task", task.name)
			return
		case <-time.After(s.restartDelay):
			s.logger.Warn("restarting background task", "task", task.name)
		}
	}
}

func (s *Supervisor) runIsolated(ctx context.Context, task supervisedTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("background task panicked",
				"task", task.name,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	s.logger.Info("background task started", "task", task.name)
	return task.run(ctx)
}
