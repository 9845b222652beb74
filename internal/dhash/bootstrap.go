package dhash

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/kmerasm/internal/remote"
	"github.com/skyline93/kmerasm/internal/spmd"
)

// coordinator is the rank that owns the directory.
const coordinator = 0

type header[V any] struct {
	capacity int
	perRank  int
	dir      *Directory[V]
}

func checkCapacity(capacity, ranks int) error {
	if capacity < ranks || capacity%ranks != 0 {
		return errors.Wrapf(ErrCapacity, "capacity %d over %d ranks", capacity, ranks)
	}
	return nil
}

// Bootstrap builds the table collectively and must be called by every rank of
// the team. The coordinator creates an empty directory and publishes it, each
// rank allocates its segment in its own memory and registers it under its
// rank id. After a barrier every rank takes a full copy of the directory, so
// the returned map is usable without further synchronization.
//
// capacity must be a positive multiple of the number of ranks, see Size.
func Bootstrap[K Key, V Entry[K]](ctx context.Context, r *spmd.Rank, fabric remote.Fabric, capacity int, opts Options) (*HashMap[K, V], error) {
	if fabric.Size() != r.N() {
		return nil, errors.Errorf("fabric has %d hosts for %d ranks", fabric.Size(), r.N())
	}
	if err := checkCapacity(capacity, r.N()); err != nil {
		return nil, err
	}

	var hdr *header[V]
	if r.Me() == coordinator {
		hdr = &header[V]{
			capacity: capacity,
			perRank:  capacity / r.N(),
			dir:      newDirectory[V](fabric.Host(coordinator), r.N()),
		}
	}

	hdr, err := spmd.Broadcast(ctx, r, hdr, coordinator)
	if err != nil {
		return nil, errors.Wrap(err, "broadcast directory")
	}

	seg := NewSegment[V](fabric.Host(r.Me()), hdr.perRank)
	if err := hdr.dir.Register(ctx, r.Me(), seg); err != nil {
		return nil, err
	}

	if err := r.Barrier(ctx); err != nil {
		return nil, errors.Wrap(err, "bootstrap barrier")
	}

	segs, err := hdr.dir.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	log.WithField("rank", r.Me()).Debugf("bootstrapped table: capacity %d, %d slots per rank", hdr.capacity, hdr.perRank)

	return &HashMap[K, V]{
		capacity: hdr.capacity,
		perRank:  hdr.perRank,
		segs:     segs,
		opts:     opts.withDefaults(),
	}, nil
}
