package metrics

import (
	"sync"
	"sync/atomic"
)

type instrumentKind string

const (
	kindCounter   instrumentKind = "counter"
	kindUpDown    instrumentKind = "updown"
	kindHistogram instrumentKind = "histogram"
)

type instrumentKey struct {
	kind instrumentKind
	name string
}

// BasicProvider keeps instruments in memory and exposes their values through
// Snapshot methods. Safe for concurrent use.
type BasicProvider struct {
	mu          sync.Mutex
	instruments map[instrumentKey]any
	configs     map[string]InstrumentConfig
}

// NewBasicProvider returns an empty BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		instruments: make(map[instrumentKey]any),
		configs:     make(map[string]InstrumentConfig),
	}
}

func getOrCreate[T any](p *BasicProvider, kind instrumentKind, name string, opts []InstrumentOption, create func() T) T {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := instrumentKey{kind: kind, name: name}
	if existing, ok := p.instruments[key]; ok {
		return existing.(T)
	}
	inst := create()
	p.instruments[key] = inst
	p.configs[name] = applyOptions(opts)
	return inst
}

func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return getOrCreate(p, kindCounter, name, opts, func() *BasicCounter { return &BasicCounter{} })
}

func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return getOrCreate(p, kindUpDown, name, opts, func() *BasicUpDownCounter { return &BasicUpDownCounter{} })
}

func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return getOrCreate(p, kindHistogram, name, opts, func() *BasicHistogram { return &BasicHistogram{} })
}

// Config returns the metadata the named instrument was created with.
func (p *BasicProvider) Config(name string) (InstrumentConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cfg, ok := p.configs[name]
	return cfg, ok
}

// CounterValue returns the value of the named counter, or 0 if it does not exist.
func (p *BasicProvider) CounterValue(name string) int64 {
	p.mu.Lock()
	c, ok := p.instruments[instrumentKey{kind: kindCounter, name: name}].(*BasicCounter)
	p.mu.Unlock()
	if !ok {
		return 0
	}
	return c.Snapshot()
}

// UpDownValue returns the value of the named up/down counter, or 0 if it does not exist.
func (p *BasicProvider) UpDownValue(name string) int64 {
	p.mu.Lock()
	u, ok := p.instruments[instrumentKey{kind: kindUpDown, name: name}].(*BasicUpDownCounter)
	p.mu.Unlock()
	if !ok {
		return 0
	}
	return u.Snapshot()
}

// HistogramSnapshot returns the state of the named histogram.
func (p *BasicProvider) HistogramSnapshot(name string) (HistSnapshot, bool) {
	p.mu.Lock()
	h, ok := p.instruments[instrumentKey{kind: kindHistogram, name: name}].(*BasicHistogram)
	p.mu.Unlock()
	if !ok {
		return HistSnapshot{}, false
	}
	return h.Snapshot(), true
}

// BasicCounter is a monotonic counter.
type BasicCounter struct{ val atomic.Int64 }

func (c *BasicCounter) Add(n int64)     { c.val.Add(n) }
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a counter that may go down.
type BasicUpDownCounter struct{ val atomic.Int64 }

func (u *BasicUpDownCounter) Add(n int64)     { u.val.Add(n) }
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram aggregates count, sum, min and max. It keeps no buckets.
type BasicHistogram struct {
	mu   sync.Mutex
	snap HistSnapshot
}

// HistSnapshot is a point-in-time copy of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
}

// Mean returns Sum/Count, or 0 for an empty histogram.
func (s HistSnapshot) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.snap.Count == 0 || v < h.snap.Min {
		h.snap.Min = v
	}
	if h.snap.Count == 0 || v > h.snap.Max {
		h.snap.Max = v
	}
	h.snap.Count++
	h.snap.Sum += v
}

func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}
