package remote

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forEachTransport(t *testing.T, n int, fn func(t *testing.T, f Fabric)) {
	for _, transport := range []string{TransportShared, TransportMailbox} {
		t.Run(transport, func(t *testing.T) {
			f, err := Open(transport, n)
			require.NoError(t, err)
			defer func() {
				assert.NoError(t, f.Close())
			}()

			fn(t, f)
		})
	}
}

func TestOpen(t *testing.T) {
	_, err := Open("carrier-pigeon", 2)
	assert.Error(t, err)

	_, err = Open(TransportShared, 0)
	assert.Error(t, err)

	f, err := Open("", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Size())
	assert.NoError(t, f.Close())
}

func TestArrayGetPut(t *testing.T) {
	ctx := context.Background()

	forEachTransport(t, 2, func(t *testing.T, f Fabric) {
		a := NewArray[string](f.Host(1), 4)
		assert.Equal(t, 1, a.Owner())
		assert.Equal(t, 4, a.Len())

		v, err := a.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "", v, "fresh array holds zero values")

		require.NoError(t, a.Put(ctx, 2, "ACGT"))
		v, err = a.Get(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "ACGT", v)

		_, err = a.Get(ctx, 4)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		err = a.Put(ctx, -1, "x")
		assert.True(t, errors.Is(err, ErrOutOfRange))
	})
}

func TestWordOperations(t *testing.T) {
	ctx := context.Background()

	forEachTransport(t, 1, func(t *testing.T, f Fabric) {
		w := NewWord(f.Host(0), 7)

		v, err := w.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), v)

		ok, err := w.CompareAndSwap(ctx, 0, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = w.CompareAndSwap(ctx, 7, 1)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, w.Store(ctx, 10))
		v, err = w.Add(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, uint64(15), v)
	})
}

func TestWordConcurrentAdd(t *testing.T) {
	ctx := context.Background()

	forEachTransport(t, 4, func(t *testing.T, f Fabric) {
		w := NewWord(f.Host(3), 0)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					_, err := w.Add(ctx, 1)
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		v, err := w.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(800), v)
	})
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	forEachTransport(t, 1, func(t *testing.T, f Fabric) {
		w := NewWord(f.Host(0), 0)
		err := w.Store(ctx, 1)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMailboxClosed(t *testing.T) {
	m := NewMailbox(2)
	w := NewWord(m.Host(1), 0)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")

	_, err := w.Load(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
