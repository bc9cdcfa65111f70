package pool

// Pool accounts for the execution slots available to workers.
// Implementations must be safe for concurrent use.
type Pool interface {
	// TryAcquire reserves a slot without blocking and reports whether it succeeded.
	TryAcquire() bool

	// Release returns a slot previously reserved with TryAcquire.
	Release()

	// InUse returns the number of currently reserved slots.
	InUse() int
}
