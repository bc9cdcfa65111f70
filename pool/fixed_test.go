package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFixedPool_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint
		run      func(t *testing.T, p *fixed)
	}{
		{
			name:     "constructor: capacity sets the slot limit",
			capacity: 3,
			run: func(t *testing.T, p *fixed) {
				if p.capacity() != 3 {
					t.Fatalf("capacity = %d, want 3", p.capacity())
				}
				if p.InUse() != 0 {
					t.Fatalf("InUse = %d, want 0 on a fresh pool", p.InUse())
				}
			},
		},
		{
			name:     "TryAcquire succeeds up to capacity, then fails",
			capacity: 2,
			run: func(t *testing.T, p *fixed) {
				if !p.TryAcquire() || !p.TryAcquire() {
					t.Fatalf("expected two successful acquisitions")
				}
				if p.TryAcquire() {
					t.Fatalf("third TryAcquire should fail with capacity 2")
				}
				if p.InUse() != 2 {
					t.Fatalf("InUse = %d, want 2", p.InUse())
				}
			},
		},
		{
			name:     "Release frees a slot for the next TryAcquire",
			capacity: 1,
			run: func(t *testing.T, p *fixed) {
				if !p.TryAcquire() {
					t.Fatalf("first TryAcquire failed")
				}
				p.Release()
				if !p.TryAcquire() {
					t.Fatalf("TryAcquire after Release failed")
				}
			},
		},
		{
			name:     "TryAcquire never blocks",
			capacity: 1,
			run: func(t *testing.T, p *fixed) {
				_ = p.TryAcquire()
				done := make(chan bool, 1)
				go func() { done <- p.TryAcquire() }()
				select {
				case ok := <-done:
					if ok {
						t.Fatalf("TryAcquire on a full pool returned true")
					}
				case <-time.After(100 * time.Millisecond):
					t.Fatalf("TryAcquire blocked on a full pool")
				}
			},
		},
		{
			name:     "capacity=0: every TryAcquire fails",
			capacity: 0,
			run: func(t *testing.T, p *fixed) {
				if p.TryAcquire() {
					t.Fatalf("TryAcquire succeeded with capacity 0")
				}
			},
		},
		{
			name:     "Release without acquire panics",
			capacity: 1,
			run: func(t *testing.T, p *fixed) {
				defer func() {
					if recover() == nil {
						t.Fatalf("expected panic on Release without acquire")
					}
				}()
				p.Release()
			},
		},
		{
			name:     "concurrent acquisitions never exceed capacity",
			capacity: 5,
			run: func(t *testing.T, p *fixed) {
				const goroutines = 20
				var (
					wg      sync.WaitGroup
					current atomic.Int32
					peak    atomic.Int32
				)
				wg.Add(goroutines)
				for i := 0; i < goroutines; i++ {
					go func() {
						defer wg.Done()
						if !p.TryAcquire() {
							return
						}
						n := current.Add(1)
						for {
							old := peak.Load()
							if n <= old || peak.CompareAndSwap(old, n) {
								break
							}
						}
						time.Sleep(5 * time.Millisecond)
						current.Add(-1)
						p.Release()
					}()
				}
				wg.Wait()
				if got := peak.Load(); got > 5 {
					t.Fatalf("peak concurrent slots = %d, exceeds capacity 5", got)
				}
				if p.InUse() != 0 {
					t.Fatalf("InUse = %d after all releases, want 0", p.InUse())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFixed(tt.capacity).(*fixed)
			tt.run(t, p)
		})
	}
}

func TestDynamicPool_AlwaysAcquires(t *testing.T) {
	p := NewDynamic()
	for i := 0; i < 100; i++ {
		if !p.TryAcquire() {
			t.Fatalf("dynamic TryAcquire failed at %d", i)
		}
	}
	if p.InUse() != 100 {
		t.Fatalf("InUse = %d, want 100", p.InUse())
	}
	for i := 0; i < 100; i++ {
		p.Release()
	}
	if p.InUse() != 0 {
		t.Fatalf("InUse = %d, want 0", p.InUse())
	}
}
