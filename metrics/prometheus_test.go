package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusProvider_Instruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider("threads", reg)

	p.Counter("workers_spawned_total", WithDescription("Workers spawned.")).Add(2)
	p.UpDownCounter("workers_live").Add(3)
	p.UpDownCounter("workers_live").Add(-1)
	p.Histogram("worker_duration_seconds").Record(0.25)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]bool, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = true
	}
	require.True(t, byName["threads_workers_spawned_total"])
	require.True(t, byName["threads_workers_live"])
	require.True(t, byName["threads_worker_duration_seconds"])

	count, err := testutil.GatherAndCount(reg, "threads_worker_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestPrometheusProvider_SameNameReusesCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider("threads", reg)

	c1 := p.Counter("joined_total").(promCounter)
	c2 := p.Counter("joined_total").(promCounter)
	c1.Add(1)
	c2.Add(4)

	require.Equal(t, 5.0, testutil.ToFloat64(c1.c))
	require.Equal(t, 5.0, testutil.ToFloat64(c2.c))
}

func TestPrometheusProvider_GaugeMovesBothWays(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider("", reg)

	g := p.UpDownCounter("live").(promGauge)
	g.Add(5)
	g.Add(-2)
	require.Equal(t, 3.0, testutil.ToFloat64(g.g))
}

func TestPrometheusProvider_ConflictingKindPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusProvider("threads", reg)

	p.Counter("dup")
	require.Panics(t, func() { p.UpDownCounter("dup") })
}
