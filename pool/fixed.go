package pool

type fixed struct {
	slots chan struct{}
}

// NewFixed returns a Pool holding at most capacity slots.
// With capacity 0 every TryAcquire fails.
func NewFixed(capacity uint) Pool {
	return &fixed{slots: make(chan struct{}, capacity)}
}

func (p *fixed) TryAcquire() bool {
	select {
	case p.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func (p *fixed) Release() {
	select {
	case <-p.slots:
	default:
		panic("pool: release without acquire")
	}
}

func (p *fixed) InUse() int { return len(p.slots) }

func (p *fixed) capacity() int { return cap(p.slots) }
