package dhash

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// acquire spins until it takes the lock of the segment owning slot. The lock
// is taken with a single compare-and-swap on the remote word, so two ranks can
// never both see it free. It only returns early if ctx is done.
func (m *HashMap[K, V]) acquire(ctx context.Context, slot int) error {
	lock := m.segment(slot).Lock

	b := backoff.WithContext(m.opts.LockBackOff(), ctx)
	err := backoff.Retry(func() error {
		ok, err := lock.CompareAndSwap(ctx, Free, Held)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}, b)

	return errors.Wrapf(err, "acquire lock of rank %d", lock.Owner())
}

// release frees the lock of the segment owning slot. Only the holder may call it.
func (m *HashMap[K, V]) release(ctx context.Context, slot int) error {
	lock := m.segment(slot).Lock
	return errors.Wrapf(lock.Store(ctx, Free), "release lock of rank %d", lock.Owner())
}
