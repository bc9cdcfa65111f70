package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider registers instruments as Prometheus collectors:
// counters as prometheus.Counter, up/down counters as prometheus.Gauge and
// histograms as prometheus.Histogram with the default buckets.
type PrometheusProvider struct {
	namespace string
	reg       prometheus.Registerer
}

// NewPrometheusProvider returns a provider registering into reg under the given
// namespace. A nil reg means prometheus.DefaultRegisterer.
func NewPrometheusProvider(namespace string, reg prometheus.Registerer) *PrometheusProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusProvider{namespace: namespace, reg: reg}
}

func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: p.namespace,
		Name:      name,
		Help:      helpText(name, cfg),
	})
	return promCounter{register(p.reg, c)}
}

func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: p.namespace,
		Name:      name,
		Help:      helpText(name, cfg),
	})
	return promGauge{register(p.reg, g)}
}

func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: p.namespace,
		Name:      name,
		Help:      helpText(name, cfg),
		Buckets:   prometheus.DefBuckets,
	})
	return promHistogram{register(p.reg, h)}
}

// register adds c to reg, returning the already registered collector when the
// same instrument was requested before. Any other registration error panics,
// as prometheus.MustRegister does.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	panic(err)
}

func helpText(name string, cfg InstrumentConfig) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return name
}

type promCounter struct{ c prometheus.Counter }

func (pc promCounter) Add(n int64) { pc.c.Add(float64(n)) }

type promGauge struct{ g prometheus.Gauge }

func (pg promGauge) Add(n int64) { pg.g.Add(float64(n)) }

type promHistogram struct{ h prometheus.Histogram }

func (ph promHistogram) Record(v float64) { ph.h.Observe(v) }
