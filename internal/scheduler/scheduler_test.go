package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brinisSoftArchitect/xml-generator/internal/model"
)

// TestSchedulerStart tests the run cadence.
func TestSchedulerStart(t *testing.T) {
	t.Parallel()

	t.Run("first run is immediate", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		runFn := func(_ context.Context) (*model.Run, error) {
			calls.Add(1)
			run := model.NewRun([]string{"https://example.com"})
			run.Complete()
			return run, nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		s := New(time.Hour, runFn)

		done := make(chan struct{})
		go func() {
			s.Start(ctx)
			close(done)
		}()

		// The interval is an hour; any run observed came from the
		// immediate first trigger.
		deadline := time.After(2 * time.Second)
		for calls.Load() == 0 {
			select {
			case <-deadline:
				t.Fatal("first run did not start immediately")
			case <-time.After(5 * time.Millisecond):
			}
		}

		cancel()
		<-done

		if calls.Load() != 1 {
			t.Errorf("expected exactly 1 run, got %d", calls.Load())
		}
	})

	t.Run("subsequent runs fire per interval", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		runFn := func(_ context.Context) (*model.Run, error) {
			calls.Add(1)
			run := model.NewRun([]string{"https://example.com"})
			run.Complete()
			return run, nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		s := New(20*time.Millisecond, runFn)

		done := make(chan struct{})
		go func() {
			s.Start(ctx)
			close(done)
		}()

		deadline := time.After(2 * time.Second)
		for calls.Load() < 3 {
			select {
			case <-deadline:
				t.Fatalf("expected at least 3 runs, got %d", calls.Load())
			case <-time.After(5 * time.Millisecond):
			}
		}

		cancel()
		<-done
	})

	t.Run("failed run does not stop the schedule", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		runFn := func(_ context.Context) (*model.Run, error) {
			calls.Add(1)
			run := model.NewRun([]string{"https://example.com"})
			run.Fail(errors.New("crawl failed"))
			return run, errors.New("crawl failed")
		}

		ctx, cancel := context.WithCancel(context.Background())
		s := New(20*time.Millisecond, runFn)

		done := make(chan struct{})
		go func() {
			s.Start(ctx)
			close(done)
		}()

		deadline := time.After(2 * time.Second)
		for calls.Load() < 2 {
			select {
			case <-deadline:
				t.Fatalf("expected retry after failure, got %d runs", calls.Load())
			case <-time.After(5 * time.Millisecond):
			}
		}

		cancel()
		<-done
	})

	t.Run("panicking run does not stop the schedule", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		runFn := func(_ context.Context) (*model.Run, error) {
			calls.Add(1)
			panic("engine bug")
		}

		ctx, cancel := context.WithCancel(context.Background())
		s := New(20*time.Millisecond, runFn)

		done := make(chan struct{})
		go func() {
			s.Start(ctx)
			close(done)
		}()

		deadline := time.After(2 * time.Second)
		for calls.Load() < 2 {
			select {
			case <-deadline:
				t.Fatalf("expected schedule to survive panic, got %d runs", calls.Load())
			case <-time.After(5 * time.Millisecond):
			}
		}

		cancel()
		<-done
	})
}

// TestSchedulerAccessors tests LastRun and NextRun.
func TestSchedulerAccessors(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 1)
	runFn := func(_ context.Context) (*model.Run, error) {
		run := model.NewRun([]string{"https://example.com"})
		run.Discovered = []string{"https://example.com"}
		run.Complete()
		select {
		case ran <- struct{}{}:
		default:
		}
		return run, nil
	}

	s := New(time.Hour, runFn)

	if s.LastRun() != nil {
		t.Error("expected nil last run before start")
	}
	if !s.NextRun().IsZero() {
		t.Error("expected zero next run before start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("run never executed")
	}

	cancel()
	<-done

	last := s.LastRun()
	if last == nil {
		t.Fatal("expected last run after first execution")
	}
	if last.State != model.RunStateCompleted {
		t.Errorf("expected completed run, got %q", last.State)
	}
	if s.NextRun().IsZero() {
		t.Error("expected next run time to be set")
	}
	if time.Until(s.NextRun()) > time.Hour {
		t.Errorf("next run too far out: %s", s.NextRun())
	}
}
