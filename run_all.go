package threads

import (
	"context"
	"errors"
)

// RunAll spawns one worker per input, all running concurrently, then joins
// them in input order. It owns the Manager lifecycle: New, Spawn, Join, Close.
//
// Semantics:
// - results[i] belongs to inputs[i]. A failed worker leaves the zero value of R
//   at its index.
// - The returned error is errors.Join of every spawn, join and close error (nil if none).
// - A spawn error (e.g. ErrResourceExhausted) stops further spawns; workers
//   already started are still joined. A failed join never prevents joining the rest.
func RunAll[I, R any](ctx context.Context, inputs []I, work Work[I, R], opts ...Option) ([]R, error) {
	m, err := New[I, R](ctx, opts...)
	if err != nil {
		return nil, err
	}

	handles, spawnErr := spawnAll(m, inputs, work)
	results, joinErr := JoinAll(m, handles)
	if len(results) < len(inputs) {
		results = append(results, make([]R, len(inputs)-len(results))...)
	}

	return results, errors.Join(spawnErr, joinErr, m.Close())
}

// spawnAll spawns until the first error and returns the handles obtained so far.
func spawnAll[I, R any](m *Manager[I, R], inputs []I, work Work[I, R]) ([]*Handle[R], error) {
	handles := make([]*Handle[R], 0, len(inputs))
	for _, in := range inputs {
		h, err := m.Spawn(in, work)
		if err != nil {
			return handles, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// JoinAll joins every handle in the given order and returns the results in the
// same order, with errors.Join of all failures. It keeps joining after a failure.
func JoinAll[I, R any](m *Manager[I, R], handles []*Handle[R]) ([]R, error) {
	results := make([]R, len(handles))
	errs := make([]error, 0, len(handles))
	for i, h := range handles {
		r, err := m.Join(h)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results[i] = r
	}
	return results, errors.Join(errs...)
}
