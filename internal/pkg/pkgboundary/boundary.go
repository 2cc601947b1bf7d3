// Package pkgboundary runs units of work so that every failure leaving them
// is an *pkgerror.Error.
//
// A failure that already is an *pkgerror.Error passes unchanged. Otherwise
// the translators get a chance to classify it, and anything left over
// becomes an internal error that keeps the original failure as its cause.
// Nothing is retried.
package pkgboundary

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgresult"
)

// Translator classifies a low-level failure it recognizes.
type Translator func(err error) (*pkgerror.Error, bool)

// Runner schedules background work, see pkgroutine.Manager.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

// TryRunner schedules background work only when it can start right away.
type TryRunner interface {
	TryGo(ctx context.Context, f func(ctx context.Context) error) bool
}

// Options configures a Boundary.
type Options struct {
	// Translators are tried in order. Empty means pkgerror.Translate only.
	Translators []Translator
}

// Boundary normalizes failures. It holds no mutable state and is safe for
// concurrent use.
type Boundary struct {
	translators []Translator
}

// New builds a Boundary.
func New(opts Options) *Boundary {
	translators := opts.Translators
	if len(translators) == 0 {
		translators = []Translator{pkgerror.Translate}
	}
	return &Boundary{translators: translators}
}

// Normalize turns any non-nil error into an *pkgerror.Error.
func (b *Boundary) Normalize(err error) error {
	if err == nil {
		return nil
	}
	return b.Classify(err)
}

// Classify is Normalize with a concrete return type. err must not be nil.
func (b *Boundary) Classify(err error) *pkgerror.Error {
	if perr, ok := pkgerror.As(err); ok {
		return perr
	}

	for _, tr := range b.translators {
		if perr, ok := tr(err); ok {
			return perr
		}
	}

	return pkgerror.NewInternal(err)
}

// PanicError turns a recovered panic value into an error. A panicked error
// stays reachable through errors.Is and errors.As.
func PanicError(rvr any) error {
	if err, ok := rvr.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rvr)
}

type outcome[T any] struct {
	val T
	err error
}

// Run calls op on its own goroutine and waits for it or for ctx to end,
// whichever comes first. The value passes through untouched. Failures,
// panics included, come back normalized.
func Run[T any](ctx context.Context, b *Boundary, op func(ctx context.Context) (T, error)) (T, error) {
	done := make(chan outcome[T], 1)

	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic recovered at boundary", "because", rvr, "stack", string(debug.Stack()))
				var zero T
				done <- outcome[T]{val: zero, err: PanicError(rvr)}
			}
		}()

		val, err := op(ctx)
		done <- outcome[T]{val: val, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			var zero T
			return zero, b.Normalize(out.err)
		}
		return out.val, nil
	case <-ctx.Done():
		var zero T
		return zero, b.Normalize(ctx.Err())
	}
}

// RunResult is Run with the outcome packed into a Result.
func RunResult[T any](ctx context.Context, b *Boundary, op func(ctx context.Context) (T, error)) pkgresult.Result[T] {
	return pkgresult.From(Run(ctx, b, op))
}

// Go schedules op on runner. Its failure is normalized before the runner
// collects it.
func Go(ctx context.Context, b *Boundary, runner Runner, op func(ctx context.Context) error) {
	runner.Go(ctx, func(ctx context.Context) error {
		_, err := Run(ctx, b, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, op(ctx)
		})
		return err
	})
}

// TryGo is Go on a runner that never blocks the caller. It reports whether
// op was scheduled.
func TryGo(ctx context.Context, b *Boundary, runner TryRunner, op func(ctx context.Context) error) bool {
	return runner.TryGo(ctx, func(ctx context.Context) error {
		_, err := Run(ctx, b, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, op(ctx)
		})
		return err
	})
}
