package syncer

import "sync"

// Gate serializes synchronization, conflict resolution and base currency
// migration. A second caller is turned away instead of queued.
type Gate struct {
	mu sync.Mutex
}

// Acquire returns ErrBusy if the gate is held.
func (g *Gate) Acquire() (release func(), err error) {
	if !g.mu.TryLock() {
		return nil, ErrBusy
	}
	return g.mu.Unlock, nil
}
