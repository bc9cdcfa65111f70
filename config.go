package threads

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/threads/metrics"
)

// config holds Manager configuration.
type config struct {
	// MaxWorkers bounds the number of workers running at the same time.
	// Spawn fails with ErrResourceExhausted once the bound is reached.
	// Default: 0 (unbounded)
	MaxWorkers uint

	// LockOSThread wires every worker goroutine to its own OS thread for the
	// whole run of the worker.
	// Default: false
	LockOSThread bool

	// Logger receives lifecycle records. Each worker logs through a child logger
	// carrying worker_id and seq.
	// Default: a logger discarding everything.
	Logger *slog.Logger

	// Metrics provides the instruments the manager records into.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		MaxWorkers:   0, // unbounded
		LockOSThread: false,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:      metrics.NewNoopProvider(),
	}
}

// validateConfig checks invariants options cannot enforce on their own.
func validateConfig(cfg *config) error {
	if cfg.Logger == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "logger must not be nil"))
	}
	if cfg.Metrics == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "metrics provider must not be nil"))
	}
	return nil
}

// Option configures a Manager. Use New(ctx, opts...) to construct one.
type Option func(*config) error

// WithMaxWorkers limits the number of concurrently running workers (must be > 0).
func WithMaxWorkers(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMaxWorkers requires n > 0"))
		}
		cfg.MaxWorkers = n
		return nil
	}
}

// WithLockOSThread runs each worker on a dedicated OS thread.
func WithLockOSThread() Option {
	return func(cfg *config) error { cfg.LockOSThread = true; return nil }
}

// WithLogger sets the logger used by the manager and its workers.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

func (cfg *config) logAttrs() []any {
	return []any{
		"max_workers", strconv.FormatUint(uint64(cfg.MaxWorkers), 10),
		"lock_os_thread", cfg.LockOSThread,
	}
}
