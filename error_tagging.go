package threads

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// WorkerMetaError exposes which worker a failure belongs to.
type WorkerMetaError interface {
	error
	Unwrap() error
	WorkerID() uuid.UUID
	WorkerSeq() uint64
}

type workerTaggedError struct {
	err error
	id  uuid.UUID
	seq uint64
}

func newWorkerTaggedError(err error, id uuid.UUID, seq uint64) error {
	if err == nil {
		return nil
	}
	return &workerTaggedError{err: err, id: id, seq: seq}
}

func (e *workerTaggedError) Error() string       { return e.err.Error() }
func (e *workerTaggedError) Unwrap() error       { return e.err }
func (e *workerTaggedError) WorkerID() uuid.UUID { return e.id }
func (e *workerTaggedError) WorkerSeq() uint64   { return e.seq }

func (e *workerTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "worker(seq=%d,id=%s): %+v", e.seq, e.id, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractWorkerID returns the ID of the worker err originated from, if present.
func ExtractWorkerID(err error) (uuid.UUID, bool) {
	var wme WorkerMetaError
	if errors.As(err, &wme) {
		return wme.WorkerID(), true
	}
	return uuid.Nil, false
}

// ExtractWorkerSeq returns the spawn sequence number of the worker err originated from, if present.
func ExtractWorkerSeq(err error) (uint64, bool) {
	var wme WorkerMetaError
	if errors.As(err, &wme) {
		return wme.WorkerSeq(), true
	}
	return 0, false
}

// ExtractPanic returns the value a worker panicked with, if err stems from a panic.
func ExtractPanic(err error) (any, bool) {
	var pe *panicError
	if errors.As(err, &pe) {
		return pe.value, true
	}
	return nil, false
}
