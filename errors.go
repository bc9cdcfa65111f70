package threads

import "errors"

const Namespace = "threads"

var (
	ErrInvalidInput      = errors.New(Namespace + ": invalid input")
	ErrResourceExhausted = errors.New(Namespace + ": cannot start worker, limit reached")
	ErrJoinFailed        = errors.New(Namespace + ": join failed")
	ErrWorkerFailed      = errors.New(Namespace + ": worker failed")
	ErrInvalidHandle     = errors.New(Namespace + ": invalid worker handle")
	ErrInvalidConfig     = errors.New(Namespace + ": invalid configuration")
	ErrClosed            = errors.New(Namespace + ": manager is closed")
	ErrUnjoined          = errors.New(Namespace + ": workers were never joined")
)
