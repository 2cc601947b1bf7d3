package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

var (
	// ErrCanceled is collected for a task whose context ended before it ran.
	ErrCanceled = errors.New("goroutine canceled before start")
	// ErrDropped is collected for a task TryGo could not schedule.
	ErrDropped = errors.New("goroutine dropped, no free slot")
)

// ErrorHook observes every error returned by a task, in the task's context.
type ErrorHook func(ctx context.Context, err error)

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	wg     *sync.WaitGroup
	sema   chan struct{}
	onFail ErrorHook
}

// Option configures a Manager.
type Option func(*Manager)

// WithErrorHook registers a hook called for every failed task.
func WithErrorHook(h ErrorHook) Option {
	return func(m *Manager) { m.onFail = h }
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int, opts ...Option) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	m := &Manager{
		wg:   &sync.WaitGroup{},
		sema: make(chan struct{}, maxGoroutine), // Semaphore to limit goroutines
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Go schedules a function to run in a goroutine once a slot is free.
//
// A task whose context ends before it starts is not run; ErrCanceled is
// recorded for it so the loss is visible in Wait.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}: // Acquire a semaphore slot
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		g.record(pCtx, fmt.Errorf("%w: %w", ErrCanceled, pCtx.Err()))
		return
	}

	g.spawn(pCtx, f)
}

// TryGo is Go without waiting: when every slot is busy the task is not run,
// ErrDropped is recorded for it and TryGo reports false.
func (g *Manager) TryGo(pCtx context.Context, f func(ctx context.Context) error) bool {
	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(pCtx, "goroutine dropped", "max", cap(g.sema))
		g.record(pCtx, ErrDropped)
		return false
	}

	g.spawn(pCtx, f)
	return true
}

// spawn runs f on a slot the caller already holds.
func (g *Manager) spawn(pCtx context.Context, f func(ctx context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema // Release semaphore slot

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", string(debug.Stack()))
				g.record(pCtx, panicError(rvr))
			}
		}()

		select {
		case <-pCtx.Done():
			slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
			g.record(pCtx, fmt.Errorf("%w: %w", ErrCanceled, pCtx.Err()))
		default:
			if err := f(pCtx); err != nil {
				g.record(pCtx, err)
			}
		}
	}()
}

func panicError(rvr any) error {
	if err, ok := rvr.(error); ok {
		return fmt.Errorf("panic occurred in goroutine: %w", err)
	}
	return fmt.Errorf("panic occurred in goroutine: %v", rvr)
}

func (g *Manager) record(ctx context.Context, err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()

	if g.onFail != nil {
		g.onFail(ctx, err)
	}
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
