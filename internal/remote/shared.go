package remote

import (
	"context"
	"sync"

	"golang.org/x/sys/cpu"
)

type sharedHost struct {
	rank int
	mu   sync.Mutex
	_    cpu.CacheLinePad
}

func (h *sharedHost) Rank() int {
	return h.rank
}

func (h *sharedHost) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	fn()
	h.mu.Unlock()
	return nil
}

// Shared is a fabric whose hosts live in the memory of the current process.
// Each host serializes accesses to its memory with its own mutex.
type Shared struct {
	hosts []sharedHost
}

// NewShared returns a shared memory fabric for n ranks.
func NewShared(n int) *Shared {
	s := &Shared{hosts: make([]sharedHost, n)}
	for i := range s.hosts {
		s.hosts[i].rank = i
	}
	return s
}

func (s *Shared) Size() int {
	return len(s.hosts)
}

func (s *Shared) Host(rank int) Host {
	return &s.hosts[rank]
}

func (s *Shared) Close() error {
	return nil
}
