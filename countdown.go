package threads

import (
	"context"
	"strconv"

	"github.com/ygrebnov/errorc"
)

// maxResultsHint bounds the preallocated result capacity.
const maxResultsHint = 1024

// Countdown runs the sequential creation pattern: for k from n down to 0 it
// spawns one worker with input k and joins it before spawning the next, so at
// most one worker is alive at any time.
//
// Semantics:
// - n < 0 returns ErrInvalidInput and spawns nothing. n == 0 runs exactly one worker.
// - Results are returned in spawn order (inputs n, n-1, ..., 0). visit, when not nil,
//   is called with each input and result right after the worker is joined.
// - The first spawn or join error stops the countdown; results gathered so far are
//   returned with it. Nothing is retried.
// - opts configure the Manager the countdown runs on.
func Countdown[R any](ctx context.Context, n int, work Work[int, R], visit func(k int, r R), opts ...Option) ([]R, error) {
	if n < 0 {
		return nil, errorc.With(ErrInvalidInput, errorc.String("n", strconv.Itoa(n)))
	}
	if work == nil {
		return nil, errorc.With(ErrInvalidInput, errorc.String("reason", "nil work"))
	}

	m, err := New[int, R](ctx, opts...)
	if err != nil {
		return nil, err
	}

	results := make([]R, 0, min(n, maxResultsHint)+1)
	for k := n; k >= 0; k-- {
		h, err := m.Spawn(k, work)
		if err != nil {
			_ = m.Close()
			return results, err
		}
		r, err := m.Join(h)
		if err != nil {
			_ = m.Close()
			return results, err
		}
		results = append(results, r)
		if visit != nil {
			visit(k, r)
		}
	}

	return results, m.Close()
}
