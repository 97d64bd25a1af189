package service

import "sync"

// RefreshBus is the process-wide data version. Only workflows that
// complete a successful mutation advance it, read paths compare or
// subscribe to know when cached lists went stale.
type RefreshBus struct {
	mu      sync.Mutex
	version uint64
	subs    map[int]chan uint64
	nextID  int
}

func NewRefreshBus() *RefreshBus {
	return &RefreshBus{
		subs: make(map[int]chan uint64),
	}
}

// Version returns the current data version
func (b *RefreshBus) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Advance bumps the version and notifies every subscriber. Sends never
// block, a subscriber that hasn't drained its channel just coalesces
// to the newest version
func (b *RefreshBus) Advance() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.version++
	for _, ch := range b.subs {
		select {
		case ch <- b.version:
		default:
		}
	}

	return b.version
}

// Subscribe registers a listener. The returned cancel func must be
// called when the listener goes away
func (b *RefreshBus) Subscribe() (<-chan uint64, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan uint64, 1)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}
