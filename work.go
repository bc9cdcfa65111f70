package threads

import (
	"context"
	"fmt"
)

// Work is the function a worker runs. It receives the manager's context and
// the worker's own copy of the input, and returns a result of type R.
// A returned error or a panic makes the worker Failed.
//
// The context is cancelled only when the manager shuts down (Close or the
// parent context ending). Bounded work may ignore it; unbounded work must
// watch it, since it is the only way such a worker ever stops.
//
// Example:
//
//	square := WorkValue(func(v int) float64 { return float64(v * v) })
//	_ = square
type Work[I, R any] func(ctx context.Context, in I) (R, error)

// WorkFunc adapts func(ctx, I) (R, error) to Work[I, R].
func WorkFunc[I, R any](fn func(context.Context, I) (R, error)) Work[I, R] { return Work[I, R](fn) }

// WorkValue adapts func(I) R to Work[I, R].
func WorkValue[I, R any](fn func(I) R) Work[I, R] {
	return func(_ context.Context, in I) (R, error) { return fn(in), nil }
}

// WorkError adapts func(ctx, I) error to Work[I, R].
// The returned Work yields the zero value of R alongside the error.
func WorkError[I, R any](fn func(context.Context, I) error) Work[I, R] {
	return func(ctx context.Context, in I) (R, error) { var zero R; return zero, fn(ctx, in) }
}

// panicError carries a value recovered from a panicking worker.
type panicError struct {
	value any
}

func (e *panicError) Error() string { return fmt.Sprintf("panicked: %v", e.value) }

// Unwrap makes every panic match ErrWorkerFailed.
func (e *panicError) Unwrap() error { return ErrWorkerFailed }

// run executes w, converting a panic into a *panicError and any returned
// error into one matching ErrWorkerFailed.
func (w Work[I, R]) run(ctx context.Context, in I) (result R, err error) {
	defer func() {
		if v := recover(); v != nil {
			var zero R
			result, err = zero, &panicError{value: v}
		}
	}()

	result, err = w(ctx, in)
	if err != nil {
		var zero R
		return zero, fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}
	return result, nil
}
