// Package cli implements the threads command: it loads configuration, builds
// the manager options and runs one of the demonstration commands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/threads"
	"github.com/ygrebnov/threads/internal/config"
	"github.com/ygrebnov/threads/internal/demo"
	"github.com/ygrebnov/threads/metrics"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const usage = `usage: threads [-config file.yaml] <command> [args]

commands:
  countdown [N]    spawn and join workers N, N-1, ..., 0 one at a time
  square [v ...]   spawn workers computing v*v (default 10 1), join in order
  ticker           run one worker printing the configured message a bounded number of times
  hello            detach a greeter worker and park until interrupted
`

// errUsage marks command line errors.
var errUsage = errors.New("usage error")

type env struct {
	ctx     context.Context
	cfg     config.Config
	log     *slog.Logger
	console *demo.Console
	stdin   io.Reader
	stdout  io.Writer
	opts    []threads.Option
}

type command func(e *env, args []string) error

var commands = map[string]command{
	"countdown": runCountdown,
	"square":    runSquare,
	"ticker":    runTicker,
	"hello":     runHello,
}

// Run executes the command described by args (without the program name) and
// returns the process exit code. ctx ends the hello command.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("threads", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to a YAML configuration file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "threads: %v\n", err)
		return ExitUsage
	}
	logger := config.NewLogger(stderr, cfg.LogLevel)

	if fs.NArg() == 0 {
		fs.Usage()
		return ExitUsage
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "threads: unknown command %q\n", name)
		fs.Usage()
		return ExitUsage
	}

	reg := prometheus.NewRegistry()
	e := &env{
		ctx:     ctx,
		cfg:     cfg,
		log:     logger.With("command", name),
		console: demo.NewConsole(stdout),
		stdin:   stdin,
		stdout:  stdout,
		opts:    managerOptions(cfg, logger, reg),
	}

	err = cmd(e, rest)
	if cfg.Metrics {
		logMetrics(e.log, reg)
	}
	if err != nil {
		e.log.Error("command failed", "error", err)
		fmt.Fprintf(stderr, "threads: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

func managerOptions(cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) []threads.Option {
	opts := []threads.Option{threads.WithLogger(logger)}
	if cfg.MaxWorkers > 0 {
		opts = append(opts, threads.WithMaxWorkers(cfg.MaxWorkers))
	}
	if cfg.LockOSThread {
		opts = append(opts, threads.WithLockOSThread())
	}
	if cfg.Metrics {
		opts = append(opts, threads.WithMetrics(metrics.NewPrometheusProvider(threads.Namespace, reg)))
	}
	return opts
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage),
		errors.Is(err, threads.ErrInvalidInput),
		errors.Is(err, threads.ErrInvalidConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func logMetrics(log *slog.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		log.Warn("gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			}
			log.Info("metric", "name", mf.GetName(), "type", mf.GetType().String(), "value", v)
		}
	}
}

func runCountdown(e *env, args []string) error {
	var (
		n   int
		err error
	)
	switch len(args) {
	case 0:
		n, err = promptCount(e.stdin, e.stdout)
	case 1:
		n, err = parseCount(args[0])
	default:
		return fmt.Errorf("%w: countdown takes at most one argument", errUsage)
	}
	if err != nil {
		return err
	}

	_, err = threads.Countdown(e.ctx, n, demo.Echo(e.console), func(k, r int) {
		e.console.Printf("Initiator waited for worker %d to complete.", k)
		e.console.Printf("Worker %d returned result: %d", k, r)
	}, e.opts...)
	if err != nil {
		return err
	}
	e.console.Printf("All workers completed execution.")
	return nil
}

func promptCount(stdin io.Reader, stdout io.Writer) (int, error) {
	fmt.Fprint(stdout, "Enter a non-negative integer N to run workers N down to 0: ")
	sc := bufio.NewScanner(stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return 0, fmt.Errorf("read N: %w", err)
		}
		return 0, fmt.Errorf("%w: no input", threads.ErrInvalidInput)
	}
	return parseCount(strings.TrimSpace(sc.Text()))
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: N must be a non-negative integer, got %q", threads.ErrInvalidInput, s)
	}
	return n, nil
}

func runSquare(e *env, args []string) error {
	inputs := []int{10, 1}
	if len(args) > 0 {
		inputs = make([]int, 0, len(args))
		for _, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("%w: %q is not an integer", threads.ErrInvalidInput, a)
			}
			inputs = append(inputs, v)
		}
	}

	m, err := threads.New[int, float64](e.ctx, e.opts...)
	if err != nil {
		return err
	}

	handles := make([]*threads.Handle[float64], 0, len(inputs))
	for i, v := range inputs {
		h, err := m.Spawn(v, demo.Square(e.console, e.cfg.StepDelay))
		if err != nil {
			// join what was started before reporting
			_, joinErr := threads.JoinAll(m, handles)
			return errors.Join(err, joinErr, m.Close())
		}
		e.console.Printf("Worker %d created successfully.", i+1)
		handles = append(handles, h)
	}

	var errs []error
	for i, h := range handles {
		e.console.Printf("Initiator waiting for worker %d to complete...", i+1)
		r, err := m.Join(h)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.console.Printf("Worker %d returned result: %.2f", i+1, r)
		e.console.Printf("Worker %d has finished execution.", i+1)
	}
	errs = append(errs, m.Close())
	if err := errors.Join(errs...); err != nil {
		return err
	}

	e.console.Printf("Initiator exiting.")
	return nil
}

func runTicker(e *env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: ticker takes no arguments", errUsage)
	}

	m, err := threads.New[string, int](e.ctx, e.opts...)
	if err != nil {
		return err
	}
	h, err := m.Spawn(e.cfg.Message, demo.Ticker(e.console, e.cfg.Bound, e.cfg.Interval))
	if err != nil {
		return errors.Join(err, m.Close())
	}
	n, err := m.Join(h)
	if err != nil {
		return errors.Join(err, m.Close())
	}
	e.console.Printf("Ticker worker finished after %d iterations.", n)
	return m.Close()
}

func runHello(e *env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: hello takes no arguments", errUsage)
	}

	m, err := threads.New[string, struct{}](e.ctx, e.opts...)
	if err != nil {
		return err
	}
	if err := m.Detach(e.cfg.Message, demo.Greeter(e.console, e.cfg.Interval)); err != nil {
		return errors.Join(err, m.Close())
	}

	e.console.Printf("Initiator is parked.")
	threads.Park(e.ctx)
	e.log.Info("initiator resumed, shutting down")
	return m.Close()
}
