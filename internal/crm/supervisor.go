package crm

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/syntrixbase/crm/internal/metrics"
	"github.com/syntrixbase/crm/internal/rpcstatus"
)

// ErrSupervisorClosed is returned by Go once Shutdown has started.
var ErrSupervisorClosed = fmt.Errorf("%w: supervisor closed", rpcstatus.ErrUnavailable)

// TaskError reports a detached task that failed or panicked.
type TaskError struct {
	Task  string
	Attrs []any
	Err   error
}

func (e TaskError) Error() string { return fmt.Sprintf("task %s: %v", e.Task, e.Err) }
func (e TaskError) Unwrap() error { return e.Err }

// Supervisor owns the detached dispatch tasks. Tasks outlive the call that
// spawned them but not the supervisor: Shutdown cancels their shared context
// once the drain deadline passes.
type Supervisor struct {
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	errs   chan TaskError

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewSupervisor(logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		logger: logger.With("component", "crm.supervisor"),
		ctx:    ctx,
		cancel: cancel,
		errs:   make(chan TaskError, 64),
	}
}

// Context is done once the supervisor has given up on its tasks.
func (s *Supervisor) Context() context.Context { return s.ctx }

// Errors delivers task failures. Failures are dropped, after being logged,
// while nobody reads the channel and its buffer is full.
func (s *Supervisor) Errors() <-chan TaskError { return s.errs }

// Closed reports whether Shutdown has started.
func (s *Supervisor) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Go runs fn as a supervised task. A returned error or a panic is logged and
// reported on Errors; neither reaches the process. After Shutdown has started
// fn is not run and ErrSupervisorClosed is returned.
func (s *Supervisor) Go(name string, attrs []any, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSupervisorClosed
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				s.logger.Error("Task panicked", append([]any{"task", name, "panic", r, "stack", string(debug.Stack())}, attrs...)...)
			}
			if err != nil {
				s.report(TaskError{Task: name, Attrs: attrs, Err: err})
			}
		}()
		err = fn(s.ctx)
	}()
	return nil
}

func (s *Supervisor) report(te TaskError) {
	metrics.TaskFailures.WithLabelValues(te.Task).Inc()
	s.logger.Warn("Task failed", append([]any{"task", te.Task, "error", te.Err}, te.Attrs...)...)
	select {
	case s.errs <- te:
	default:
	}
}

// Shutdown refuses new tasks and waits for running ones. When ctx expires
// first the tasks are cancelled and awaited.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.logger.Warn("Drain deadline passed, cancelling tasks")
		s.cancel()
		<-done
		return ctx.Err()
	}
}
