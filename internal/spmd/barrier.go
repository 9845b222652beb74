package spmd

import (
	"context"
	"sync"
)

// Barrier is a reusable barrier for a fixed number of parties. Each generation
// is released when the last party arrives.
type Barrier struct {
	mu      sync.Mutex
	parties int
	arrived int
	release chan struct{}
}

// NewBarrier returns a barrier for n parties.
func NewBarrier(n int) *Barrier {
	return &Barrier{
		parties: n,
		release: make(chan struct{}),
	}
}

// Wait blocks until all parties have called Wait or ctx is done. A party that
// gives up because of ctx leaves its generation broken.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	release := b.release
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.release = make(chan struct{})
		b.mu.Unlock()
		close(release)
		return nil
	}
	b.mu.Unlock()

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
