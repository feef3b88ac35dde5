package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSupervisorRestartsPanickedTask(t *testing.T) {
	supervisor := NewSupervisor(nil)
	supervisor.restartDelay = 10 * time.Millisecond

	var runs atomic.Int32
	supervisor.Add("flaky", func(ctx context.Context) error {
		if runs.Add(1) == 1 {
			panic("boom")
		}
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	supervisor.Start(ctx)

	deadline := time.After(time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("task was not restarted after panicking")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	supervisor.Wait()
}

func TestSupervisorStopsOnCancel(t *testing.T) {
	supervisor := NewSupervisor(nil)

	started := make(chan struct{})
	supervisor.Add("loop", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	supervisor.Start(ctx)
	<-started
	cancel()

	done := make(chan struct{})
	go func() {
		supervisor.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop after cancellation")
	}
}
