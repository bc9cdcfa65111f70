package threads

import (
	"sync"
)

// lifecycleCoordinator encapsulates the Manager shutdown sequence.
// It owns nothing; it orders intake refusal, cancellation, waiting and the
// final unjoined-handle report. Close is safe for concurrent calls and the
// sequence executes exactly once.
type lifecycleCoordinator struct {
	stopIntake func()
	cancel     func()
	running    *sync.WaitGroup
	reap       func() error

	once sync.Once
	err  error
}

func newLifecycleCoordinator(
	stopIntake func(),
	cancel func(),
	running *sync.WaitGroup,
	reap func() error,
) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		stopIntake: stopIntake,
		cancel:     cancel,
		running:    running,
		reap:       reap,
	}
}

// Close executes the shutdown sequence once and returns its outcome on every call:
// 1) refuse new spawns
// 2) cancel the manager context, stopping unbounded workers
// 3) wait for every running worker to return
// 4) report handles that were never joined
func (lc *lifecycleCoordinator) Close() error {
	lc.once.Do(func() {
		if lc.stopIntake != nil {
			lc.stopIntake()
		}
		if lc.cancel != nil {
			lc.cancel()
		}
		// no new running.Add can happen once intake is stopped
		if lc.running != nil {
			lc.running.Wait()
		}
		if lc.reap != nil {
			lc.err = lc.reap()
		}
	})
	return lc.err
}
