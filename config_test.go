package threads

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/ygrebnov/threads/metrics"
)

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := defaultConfig()
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("validateConfig returned error for defaults: %v", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	if cfg.MaxWorkers != 0 {
		t.Fatalf("MaxWorkers default = %d; want 0", cfg.MaxWorkers)
	}
	if cfg.LockOSThread {
		t.Fatalf("LockOSThread default = %v; want false", cfg.LockOSThread)
	}
	if cfg.Logger == nil {
		t.Fatalf("Logger default must not be nil")
	}
	if _, ok := cfg.Metrics.(metrics.NoopProvider); !ok {
		t.Fatalf("Metrics default = %T; want metrics.NoopProvider", cfg.Metrics)
	}
}

func TestNew_InvalidOptions_ReturnsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
	}{
		{name: "zero max workers", opt: WithMaxWorkers(0)},
		{name: "nil logger", opt: WithLogger(nil)},
		{name: "nil metrics", opt: WithMetrics(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New[int, int](context.Background(), tt.opt)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if m != nil {
				t.Fatalf("expected nil manager on error, got: %v", m)
			}
		})
	}
}

func TestNew_ValidOptions_Succeeds(t *testing.T) {
	t.Parallel()

	m, err := New[int, int](
		context.Background(),
		WithMaxWorkers(2),
		WithLockOSThread(),
		WithLogger(slog.Default()),
		WithMetrics(metrics.NewBasicProvider()),
		nil, // nil options are skipped
	)
	if err != nil {
		t.Fatalf("unexpected error from New with valid options: %v", err)
	}
	if m == nil {
		t.Fatalf("expected non-nil manager")
	}
	if m.config.MaxWorkers != 2 || !m.config.LockOSThread {
		t.Fatalf("options not applied: %+v", m.config)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
