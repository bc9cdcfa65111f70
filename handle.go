package threads

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle state of a worker.
type State int32

const (
	// StateRunning: the worker goroutine has started and has not returned yet.
	StateRunning State = iota + 1
	// StateCompleted: the work returned a result.
	StateCompleted
	// StateFailed: the work returned an error or panicked.
	StateFailed
	// StateJoined: the outcome was handed over by Join.
	StateJoined
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Handle identifies one spawned worker and is the only way to collect its
// outcome. A Handle belongs to the Manager that spawned it and can be joined
// exactly once.
type Handle[R any] struct {
	id    uuid.UUID
	seq   uint64
	owner uuid.UUID

	state  atomic.Int32
	joined atomic.Bool
	done   chan struct{}

	// written once before done is closed; read only by the joiner
	result R
	err    error
}

func newHandle[R any](owner uuid.UUID, seq uint64) *Handle[R] {
	h := &Handle[R]{
		id:    uuid.New(),
		seq:   seq,
		owner: owner,
		done:  make(chan struct{}),
	}
	h.state.Store(int32(StateRunning))
	return h
}

// ID returns the unique worker ID.
func (h *Handle[R]) ID() uuid.UUID { return h.id }

// Seq returns the worker's spawn sequence number within its Manager, starting at 0.
func (h *Handle[R]) Seq() uint64 { return h.seq }

// State returns the current lifecycle state.
func (h *Handle[R]) State() State { return State(h.state.Load()) }

// Done returns a channel closed once the worker has reached Completed or Failed.
func (h *Handle[R]) Done() <-chan struct{} { return h.done }

func (h *Handle[R]) finish(result R, err error) {
	h.result, h.err = result, err
	if err != nil {
		h.state.Store(int32(StateFailed))
	} else {
		h.state.Store(int32(StateCompleted))
	}
	close(h.done)
}

// take hands the outcome over to the joiner and drops the handle's references.
func (h *Handle[R]) take() (R, error) {
	result, err := h.result, h.err
	var zero R
	h.result, h.err = zero, nil
	h.state.Store(int32(StateJoined))
	return result, err
}
