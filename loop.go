package threads

import (
	"context"
	"strconv"
	"time"

	"github.com/ygrebnov/errorc"
)

// Repeat returns work that performs unit exactly bound times, sleeping interval
// after each unit, and then returns the number of units performed.
// The counter lives in the worker; the initiator learns about it only through
// the result. The loop runs to completion regardless of cancellation.
// A negative bound makes the worker fail with ErrInvalidInput.
func Repeat[I any](bound int, interval time.Duration, unit func(ctx context.Context, in I, i int)) Work[I, int] {
	return func(ctx context.Context, in I) (int, error) {
		if bound < 0 {
			return 0, errorc.With(ErrInvalidInput, errorc.String("bound", strconv.Itoa(bound)))
		}
		count := 0
		for count < bound {
			unit(ctx, in, count)
			count++
			if interval > 0 {
				time.Sleep(interval)
			}
		}
		return count, nil
	}
}

// Forever returns work that performs unit every interval with no termination
// condition of its own. It returns, successfully, only once ctx is cancelled,
// which is the manager's shutdown signal (Close or the parent context).
func Forever[I any](interval time.Duration, unit func(ctx context.Context, in I, i int)) Work[I, struct{}] {
	return func(ctx context.Context, in I) (struct{}, error) {
		ticker := time.NewTicker(max(interval, time.Millisecond))
		defer ticker.Stop()

		for i := 0; ; i++ {
			if ctx.Err() != nil {
				return struct{}{}, nil
			}
			unit(ctx, in, i)
			select {
			case <-ctx.Done():
				return struct{}{}, nil
			case <-ticker.C:
			}
		}
	}
}

// Park suspends the calling initiator until ctx is done. It is the deliberate
// blocking point of a fire-and-forget program: returning from main would end
// every detached worker with it. With a context that is never cancelled Park
// blocks forever, which is a valid final state rather than a leak.
func Park(ctx context.Context) {
	<-ctx.Done()
}
