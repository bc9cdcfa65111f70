// Package threads manages the lifecycle of a bounded set of workers: each worker
// runs in its own goroutine with an owned copy of its input, produces a typed
// result, and is joined exactly once by the initiator.
//
// Constructor
//   - New[I, R](ctx, opts ...Option): creates a Manager for inputs of type I and
//     results of type R.
//
// Defaults
// Unless overridden, the following defaults apply:
//   - WithMaxWorkers: unbounded (Spawn never reports ErrResourceExhausted)
//   - WithLockOSThread: off
//   - WithLogger: discards everything
//   - WithMetrics: no-op provider
//
// Lifecycle
// A worker is Running when Spawn returns, then Completed or Failed, then Joined
// once Join hands its outcome over. Joining twice returns ErrInvalidHandle.
// There is no per-worker cancellation: workers run to their own completion.
// Close cancels the context workers receive, which only unbounded work (see
// Forever) is expected to observe, and waits for every worker to return.
//
// Patterns
//   - Countdown: spawn and immediately join workers n, n-1, ..., 0.
//   - RunAll: spawn workers for all inputs, join them in input order.
//   - Repeat: a worker that performs a fixed number of units and stops.
//   - Forever with Detach and Park: a worker that never stops on its own and an
//     initiator that parks instead of exiting.
package threads
