package threads

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/threads/metrics"
	"github.com/ygrebnov/threads/pool"
)

// Instrument names recorded by the Manager.
const (
	MetricSpawned  = "workers_spawned_total"
	MetricRejected = "workers_rejected_total"
	MetricJoined   = "workers_joined_total"
	MetricFailed   = "workers_failed_total"
	MetricLive     = "workers_running"
	MetricDuration = "worker_duration_seconds"
)

type instruments struct {
	spawned  metrics.Counter
	rejected metrics.Counter
	joined   metrics.Counter
	failed   metrics.Counter
	running  metrics.UpDownCounter
	duration metrics.Histogram
}

func newInstruments(p metrics.Provider) instruments {
	return instruments{
		spawned:  p.Counter(MetricSpawned, metrics.WithDescription("Workers started."), metrics.WithUnit("1")),
		rejected: p.Counter(MetricRejected, metrics.WithDescription("Spawns refused because the worker limit was reached."), metrics.WithUnit("1")),
		joined:   p.Counter(MetricJoined, metrics.WithDescription("Worker outcomes handed over by Join."), metrics.WithUnit("1")),
		failed:   p.Counter(MetricFailed, metrics.WithDescription("Workers that returned an error or panicked."), metrics.WithUnit("1")),
		running:  p.UpDownCounter(MetricLive, metrics.WithDescription("Workers currently running."), metrics.WithUnit("1")),
		duration: p.Histogram(MetricDuration, metrics.WithDescription("Worker run time."), metrics.WithUnit("seconds")),
	}
}

// Manager starts workers, hands out their handles and collects their outcomes.
// I is the worker input type, R the result type.
// Methods are safe for concurrent use. Construct with New.
type Manager[I, R any] struct {
	// noCopy prevents accidental copying of the manager.
	//go:nocopy
	nc noCopy

	id     uuid.UUID
	config *config
	log    *slog.Logger
	slots  pool.Pool
	inst   instruments

	// cancelled by Close; the context every worker runs with
	ctx    context.Context
	cancel context.CancelFunc

	seq atomic.Uint64

	mu       sync.Mutex
	closed   bool
	unjoined map[uuid.UUID]*Handle[R]

	// every started worker, joinable or detached
	running sync.WaitGroup

	lc *lifecycleCoordinator
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Manager configured by opts. Workers run with a context derived
// from ctx; cancelling ctx has the same effect on workers as Close.
func New[I, R any](ctx context.Context, opts ...Option) (*Manager[I, R], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	m := &Manager[I, R]{
		id:       uuid.New(),
		config:   &cfg,
		unjoined: make(map[uuid.UUID]*Handle[R]),
		inst:     newInstruments(cfg.Metrics),
	}
	m.log = cfg.Logger.With("manager_id", m.id.String())

	if cfg.MaxWorkers > 0 {
		m.slots = pool.NewFixed(cfg.MaxWorkers)
	} else {
		m.slots = pool.NewDynamic()
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	m.lc = newLifecycleCoordinator(m.stopIntake, m.cancel, &m.running, m.reapUnjoined)

	m.log.Debug("manager created", cfg.logAttrs()...)
	return m, nil
}

// Spawn starts a worker running work with its own copy of in and returns its handle.
//
// Semantics:
// - The input is copied into the worker before Spawn returns; the caller may reuse
//   or drop its variable. Reference types (slices, maps, pointers) still share
//   what they point to.
// - Spawn returns once the worker goroutine is running. It never waits for the work.
// - ErrResourceExhausted is returned when WithMaxWorkers slots are all taken; no worker
//   is started. Nothing is retried.
// - ErrInvalidInput is returned for a nil work; ErrClosed after Close.
// - Every returned handle must be joined exactly once.
func (m *Manager[I, R]) Spawn(in I, work Work[I, R]) (*Handle[R], error) {
	return m.start(in, work, true)
}

// Detach starts a worker that is never joined (fire and forget).
// The worker holds a slot while running. Unbounded work should return once
// its context is cancelled; Close cancels it and waits for the return.
// A failure of a detached worker is logged, since nobody can observe it otherwise.
func (m *Manager[I, R]) Detach(in I, work Work[I, R]) error {
	_, err := m.start(in, work, false)
	return err
}

func (m *Manager[I, R]) start(in I, work Work[I, R], joinable bool) (*Handle[R], error) {
	if work == nil {
		return nil, errorc.With(ErrInvalidInput, errorc.String("reason", "nil work"))
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if !m.slots.TryAcquire() {
		m.mu.Unlock()
		m.inst.rejected.Add(1)
		limit := strconv.FormatUint(uint64(m.config.MaxWorkers), 10)
		m.log.Error("cannot start worker", "max_workers", limit)
		return nil, errorc.With(ErrResourceExhausted, errorc.String("max_workers", limit))
	}
	h := newHandle[R](m.id, m.seq.Add(1)-1)
	if joinable {
		m.unjoined[h.id] = h
	}
	m.running.Add(1)
	m.mu.Unlock()

	m.inst.spawned.Add(1)
	m.inst.running.Add(1)

	log := m.log.With("worker_id", h.id.String(), "seq", h.seq)
	log.Debug("worker starting", "joinable", joinable)

	started := make(chan struct{})
	go m.runWorker(h, in, work, joinable, log, started)
	<-started

	return h, nil
}

func (m *Manager[I, R]) runWorker(
	h *Handle[R], in I, work Work[I, R], joinable bool, log *slog.Logger, started chan<- struct{},
) {
	defer m.running.Done()

	if m.config.LockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	var (
		result   R
		err      error
		returned bool
		begin    = time.Now()
	)

	defer func() {
		if !returned {
			// runtime.Goexit inside work skips the normal return path
			err = fmt.Errorf("%w: exited without returning", ErrWorkerFailed)
		}
		m.settle(h, result, err, time.Since(begin), joinable, log)
	}()

	close(started)
	result, err = work.run(m.ctx, in)
	returned = true
}

// settle releases the worker's slot, then publishes its outcome.
// The slot is released first so that a joiner may spawn again right away.
func (m *Manager[I, R]) settle(h *Handle[R], result R, err error, took time.Duration, joinable bool, log *slog.Logger) {
	m.slots.Release()
	m.inst.running.Add(-1)
	m.inst.duration.Record(took.Seconds())

	if err != nil {
		m.inst.failed.Add(1)
		err = newWorkerTaggedError(err, h.id, h.seq)
		if joinable {
			log.Warn("worker failed", "error", err, "took", took)
		} else {
			log.Error("detached worker failed", "error", err, "took", took)
		}
	} else {
		log.Debug("worker completed", "took", took)
	}

	h.finish(result, err)
}

// Join blocks until the worker behind h has completed or failed, and hands its
// outcome to the caller.
//
// Semantics:
// - Exactly once: a second Join on the same handle returns ErrInvalidHandle, as
//   do a nil handle and a handle spawned by another Manager.
// - A worker that returned an error or panicked yields ErrWorkerFailed; the error
//   carries the worker ID and sequence (see ExtractWorkerID, ExtractPanic).
// - A successful zero or nil result is returned with a nil error and is never
//   confused with a failure.
func (m *Manager[I, R]) Join(h *Handle[R]) (R, error) {
	return m.JoinContext(context.Background(), h)
}

// JoinContext is Join bounded by ctx. When ctx ends before the worker does it
// returns ErrJoinFailed wrapping ctx.Err(); the handle stays joinable and other
// workers are unaffected.
func (m *Manager[I, R]) JoinContext(ctx context.Context, h *Handle[R]) (R, error) {
	var zero R

	if err := m.checkHandle(h); err != nil {
		return zero, err
	}

	select {
	case <-h.done:
	case <-ctx.Done():
		return zero, newWorkerTaggedError(fmt.Errorf("%w: %w", ErrJoinFailed, ctx.Err()), h.id, h.seq)
	}

	// concurrent joiners may all get here; only one takes the outcome
	if !h.joined.CompareAndSwap(false, true) {
		return zero, errorc.With(ErrInvalidHandle, errorc.String("reason", "already joined"))
	}

	m.mu.Lock()
	delete(m.unjoined, h.id)
	m.mu.Unlock()

	m.inst.joined.Add(1)
	return h.take()
}

func (m *Manager[I, R]) checkHandle(h *Handle[R]) error {
	switch {
	case h == nil:
		return errorc.With(ErrInvalidHandle, errorc.String("reason", "nil handle"))
	case h.owner != m.id:
		return errorc.With(ErrInvalidHandle, errorc.String("reason", "handle belongs to another manager"))
	case h.joined.Load():
		return errorc.With(ErrInvalidHandle, errorc.String("reason", "already joined"))
	}
	return nil
}

// Live returns the number of spawned handles not yet joined.
func (m *Manager[I, R]) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.unjoined)
}

// Running returns the number of workers, joinable or detached, that have not returned yet.
func (m *Manager[I, R]) Running() int { return m.slots.InUse() }

// Close shuts the manager down.
//
// Semantics:
// - Idempotent and safe for concurrent use; every call returns the same error.
// - Spawn and Detach fail with ErrClosed from the moment Close begins.
// - Cancels the context workers run with, then waits for all of them to return.
//   Bounded workers that ignore the context simply run to completion.
// - Returns ErrUnjoined when joinable handles were never joined. Those handles
//   can still be joined after Close.
func (m *Manager[I, R]) Close() error {
	return m.lc.Close()
}

func (m *Manager[I, R]) stopIntake() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *Manager[I, R]) reapUnjoined() error {
	m.mu.Lock()
	n := len(m.unjoined)
	m.mu.Unlock()

	if n == 0 {
		m.log.Debug("manager closed")
		return nil
	}
	m.log.Warn("manager closed with unjoined workers", "count", n)
	return errorc.With(ErrUnjoined, errorc.String("count", strconv.Itoa(n)))
}
