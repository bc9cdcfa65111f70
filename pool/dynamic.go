package pool

import "sync/atomic"

type dynamic struct {
	inUse atomic.Int64
}

// NewDynamic returns a Pool without an upper bound. TryAcquire always succeeds.
func NewDynamic() Pool {
	return &dynamic{}
}

func (p *dynamic) TryAcquire() bool {
	p.inUse.Add(1)
	return true
}

func (p *dynamic) Release() {
	if p.inUse.Add(-1) < 0 {
		panic("pool: release without acquire")
	}
}

func (p *dynamic) InUse() int { return int(p.inUse.Load()) }
