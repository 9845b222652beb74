package remote

import (
	"context"

	"github.com/pkg/errors"
)

// Array is a fixed length array of T living in the memory of one host. The
// pointer itself is the handle other ranks use to reach the memory.
type Array[T any] struct {
	host Host
	data []T
}

// NewArray allocates n zero values of T on host.
func NewArray[T any](host Host, n int) *Array[T] {
	return &Array[T]{
		host: host,
		data: make([]T, n),
	}
}

// Owner returns the rank whose memory holds the array.
func (a *Array[T]) Owner() int {
	return a.host.Rank()
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	return len(a.data)
}

// Get reads element i.
func (a *Array[T]) Get(ctx context.Context, i int) (v T, err error) {
	if i < 0 || i >= len(a.data) {
		return v, errors.Wrapf(ErrOutOfRange, "get %d of %d on rank %d", i, len(a.data), a.Owner())
	}

	err = a.host.Do(ctx, func() {
		v = a.data[i]
	})
	return v, err
}

// Put writes v to element i.
func (a *Array[T]) Put(ctx context.Context, i int, v T) error {
	if i < 0 || i >= len(a.data) {
		return errors.Wrapf(ErrOutOfRange, "put %d of %d on rank %d", i, len(a.data), a.Owner())
	}

	return a.host.Do(ctx, func() {
		a.data[i] = v
	})
}
