// Package config loads the threads command configuration from an optional
// YAML file and THREADS_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultInterval  = time.Second
	defaultStepDelay = 500 * time.Millisecond
	defaultBound     = 10
	defaultMessage   = "Hello World, worker here!"

	envLogLevel     = "THREADS_LOG_LEVEL"
	envMaxWorkers   = "THREADS_MAX_WORKERS"
	envLockOSThread = "THREADS_LOCK_OS_THREAD"
	envInterval     = "THREADS_INTERVAL"
	envStepDelay    = "THREADS_STEP_DELAY"
	envBound        = "THREADS_BOUND"
	envMessage      = "THREADS_MESSAGE"
	envMetrics      = "THREADS_METRICS"
)

// ErrInvalid is returned for configuration values that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the command configuration.
type Config struct {
	LogLevel slog.Level

	// MaxWorkers bounds concurrently running workers; 0 means unbounded.
	MaxWorkers   uint
	LockOSThread bool

	// Interval is the pause between work units of the ticker and greeter workers.
	Interval time.Duration
	// StepDelay is the pause between count-down steps of the square worker.
	StepDelay time.Duration
	// Bound is the number of units the ticker worker performs.
	Bound int
	// Message is printed by the ticker and greeter workers.
	Message string

	// Metrics enables Prometheus instruments, logged when the command ends.
	Metrics bool
}

// file is the YAML layout:
//
//	threads:
//	  log_level: debug
//	  max_workers: 4
//	  interval: 1s
type file struct {
	Threads struct {
		LogLevel     string `yaml:"log_level"`
		MaxWorkers   *uint  `yaml:"max_workers"`
		LockOSThread *bool  `yaml:"lock_os_thread"`
		Interval     string `yaml:"interval"`
		StepDelay    string `yaml:"step_delay"`
		Bound        *int   `yaml:"bound"`
		Message      string `yaml:"message"`
		Metrics      *bool  `yaml:"metrics"`
	} `yaml:"threads"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel:  slog.LevelInfo,
		Interval:  defaultInterval,
		StepDelay: defaultStepDelay,
		Bound:     defaultBound,
		Message:   defaultMessage,
	}
}

// Load returns the defaults overridden by the YAML file at path (skipped when
// path is empty) and then by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.applyYAML(raw); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, cfg.validate()
}

func (cfg *Config) applyYAML(raw []byte) error {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("%w: parse yaml: %w", ErrInvalid, err)
	}
	t := f.Threads

	if t.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(t.LogLevel)
	}
	if t.MaxWorkers != nil {
		cfg.MaxWorkers = *t.MaxWorkers
	}
	if t.LockOSThread != nil {
		cfg.LockOSThread = *t.LockOSThread
	}
	if t.Bound != nil {
		cfg.Bound = *t.Bound
	}
	if t.Message != "" {
		cfg.Message = t.Message
	}
	if t.Metrics != nil {
		cfg.Metrics = *t.Metrics
	}
	if err := setDuration(&cfg.Interval, "interval", t.Interval); err != nil {
		return err
	}
	return setDuration(&cfg.StepDelay, "step_delay", t.StepDelay)
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
	if v := os.Getenv(envMaxWorkers); v != "" {
		n, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, envMaxWorkers, err)
		}
		cfg.MaxWorkers = uint(n)
	}
	if v := os.Getenv(envLockOSThread); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, envLockOSThread, err)
		}
		cfg.LockOSThread = b
	}
	if v := os.Getenv(envBound); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, envBound, err)
		}
		cfg.Bound = n
	}
	if v := os.Getenv(envMessage); v != "" {
		cfg.Message = v
	}
	if v := os.Getenv(envMetrics); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, envMetrics, err)
		}
		cfg.Metrics = b
	}
	if err := setDuration(&cfg.Interval, envInterval, os.Getenv(envInterval)); err != nil {
		return err
	}
	return setDuration(&cfg.StepDelay, envStepDelay, os.Getenv(envStepDelay))
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Bound < 0:
		return fmt.Errorf("%w: bound must not be negative, got %d", ErrInvalid, cfg.Bound)
	case cfg.Interval <= 0:
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalid, cfg.Interval)
	case cfg.StepDelay < 0:
		return fmt.Errorf("%w: step delay must not be negative, got %s", ErrInvalid, cfg.StepDelay)
	}
	return nil
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
	}
	*dst = d
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
