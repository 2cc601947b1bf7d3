// Package pkgresult provides a success/failure value for work whose outcome
// must be handed over rather than returned as a bare (T, error) pair, for
// example across goroutines or from a remote call.
package pkgresult

import (
	"errors"

	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
)

var errEmptyFailure = errors.New("failure without error")

// Result holds either data or an error, never both.
//
// The zero value is a failure carrying an internal error.
type Result[T any] struct {
	data T
	err  error
	ok   bool
}

// Success wraps data.
func Success[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// Failure wraps err. A nil err is replaced by an internal error so the
// failure branch always has something to report.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = pkgerror.NewInternal(errEmptyFailure)
	}
	return Result[T]{err: err}
}

// From builds a Result from a conventional (T, error) pair.
func From[T any](data T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(data)
}

// IsSuccess reports whether r holds data.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether r holds an error.
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Data returns the data and true on success.
func (r Result[T]) Data() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.data, true
}

// Err returns the error and true on failure.
func (r Result[T]) Err() (error, bool) {
	if r.ok {
		return nil, false
	}
	return r.failure(), true
}

// Unwrap converts r back to a (T, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.data, nil
	}
	var zero T
	return zero, r.failure()
}

// Match calls exactly one of the callbacks.
func (r Result[T]) Match(onSuccess func(T), onFailure func(error)) {
	if r.ok {
		onSuccess(r.data)
		return
	}
	onFailure(r.failure())
}

func (r Result[T]) failure() error {
	if r.err == nil {
		return pkgerror.NewInternal(errEmptyFailure)
	}
	return r.err
}

// Fold reduces r to a single value by calling exactly one of the callbacks.
func Fold[T, R any](r Result[T], onSuccess func(T) R, onFailure func(error) R) R {
	if r.ok {
		return onSuccess(r.data)
	}
	return onFailure(r.failure())
}

// Map transforms the data of a successful result and keeps failures as is.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.ok {
		return Success(fn(r.data))
	}
	return Failure[U](r.failure())
}
