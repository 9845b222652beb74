// Package spmd runs the same function on a team of ranks and provides the
// collective operations they synchronize with.
package spmd

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type team struct {
	n       int
	barrier *Barrier

	mu   sync.Mutex
	slot any
}

// Rank is the handle a rank uses to learn its identity and to take part in
// collective operations.
type Rank struct {
	me   int
	team *team
}

// Me returns the id of this rank, in [0, N()).
func (r *Rank) Me() int {
	return r.me
}

// N returns the number of ranks in the team.
func (r *Rank) N() int {
	return r.team.n
}

// Barrier waits until every rank of the team has reached it.
func (r *Rank) Barrier(ctx context.Context) error {
	return r.team.barrier.Wait(ctx)
}

// Run starts n ranks executing fn and waits for all of them. The first rank to
// fail cancels the context of all others and its error is returned.
func Run(ctx context.Context, n int, fn func(ctx context.Context, r *Rank) error) error {
	if n < 1 {
		return errors.Errorf("invalid number of ranks %d", n)
	}

	t := &team{n: n, barrier: NewBarrier(n)}
	wg, wgCtx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		r := &Rank{me: i, team: t}
		wg.Go(func() error {
			err := fn(wgCtx, r)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.WithField("rank", r.me).Debugf("rank failed: %v", err)
			}
			return err
		})
	}

	return wg.Wait()
}

// Broadcast returns the value v passed by rank root on every rank. It must be
// called by all ranks of the team.
func Broadcast[T any](ctx context.Context, r *Rank, v T, root int) (T, error) {
	var zero T
	if root < 0 || root >= r.N() {
		return zero, errors.Errorf("invalid broadcast root %d", root)
	}

	t := r.team
	if r.me == root {
		t.mu.Lock()
		t.slot = v
		t.mu.Unlock()
	}

	if err := r.Barrier(ctx); err != nil {
		return zero, err
	}

	t.mu.Lock()
	slot := t.slot
	t.mu.Unlock()

	// keep the root from overwriting the slot before everyone has read it
	if err := r.Barrier(ctx); err != nil {
		return zero, err
	}

	out, ok := slot.(T)
	if !ok {
		return zero, errors.Errorf("broadcast from rank %d has type %T", root, slot)
	}
	return out, nil
}
