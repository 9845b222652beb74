package dhash

import (
	"context"

	"github.com/pkg/errors"
	"github.com/skyline93/kmerasm/internal/remote"
)

// Directory maps every rank to the segment it contributed. It lives in the
// memory of the coordinator and is written once per rank during bootstrap.
type Directory[V any] struct {
	entries  *remote.Array[Segment[V]]
	progress *remote.Word
}

func newDirectory[V any](host remote.Host, ranks int) *Directory[V] {
	return &Directory[V]{
		entries:  remote.NewArray[Segment[V]](host, ranks),
		progress: remote.NewWord(host, 0),
	}
}

// Len returns the number of entries.
func (d *Directory[V]) Len() int {
	return d.entries.Len()
}

// Register stores the segment of rank. Each rank writes only its own entry,
// so registrations need no ordering among each other.
func (d *Directory[V]) Register(ctx context.Context, rank int, seg Segment[V]) error {
	if !seg.Valid() {
		return errors.Errorf("rank %d registers an invalid segment", rank)
	}

	if err := d.entries.Put(ctx, rank, seg); err != nil {
		return errors.Wrapf(err, "register rank %d", rank)
	}

	_, err := d.progress.Add(ctx, 1)
	return errors.Wrap(err, "advance registration progress")
}

// Progress returns the number of ranks registered so far.
func (d *Directory[V]) Progress(ctx context.Context) (int, error) {
	v, err := d.progress.Load(ctx)
	return int(v), err
}

// Snapshot reads all entries. It fails with ErrIncomplete unless every rank
// has registered.
func (d *Directory[V]) Snapshot(ctx context.Context) ([]Segment[V], error) {
	n, err := d.Progress(ctx)
	if err != nil {
		return nil, err
	}
	if n != d.Len() {
		return nil, errors.Wrapf(ErrIncomplete, "%d of %d ranks registered", n, d.Len())
	}

	segs := make([]Segment[V], d.Len())
	for i := range segs {
		segs[i], err = d.entries.Get(ctx, i)
		if err != nil {
			return nil, err
		}
		if !segs[i].Valid() {
			return nil, errors.Wrapf(ErrIncomplete, "no segment for rank %d", i)
		}
	}

	return segs, nil
}
