package dhash

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
)

// HashMap is one rank's view of the distributed table. All views returned by
// the same Bootstrap call address the same slots.
type HashMap[K Key, V Entry[K]] struct {
	capacity int
	perRank  int
	segs     []Segment[V]
	opts     Options

	inserts atomic.Uint64
	finds   atomic.Uint64
	probes  atomic.Uint64
}

// Stats counts the operations issued through one view.
type Stats struct {
	Inserts uint64
	Finds   uint64
	Probes  uint64
}

// Capacity returns the total number of slots.
func (m *HashMap[K, V]) Capacity() int {
	return m.capacity
}

// PerRank returns the number of slots in each segment.
func (m *HashMap[K, V]) PerRank() int {
	return m.perRank
}

// Ranks returns the number of segments.
func (m *HashMap[K, V]) Ranks() int {
	return len(m.segs)
}

// Owner returns the rank whose segment holds slot. The result is undefined for
// slots outside [0, Capacity()).
func (m *HashMap[K, V]) Owner(slot int) int {
	return slot / m.perRank
}

// LocalIndex returns the position of slot within its owner's segment.
func (m *HashMap[K, V]) LocalIndex(slot int) int {
	return slot - m.Owner(slot)*m.perRank
}

func (m *HashMap[K, V]) Stats() Stats {
	return Stats{
		Inserts: m.inserts.Load(),
		Finds:   m.finds.Load(),
		Probes:  m.probes.Load(),
	}
}

// Lookup returns the segment registered by rank.
func (m *HashMap[K, V]) Lookup(rank int) Segment[V] {
	return m.segs[rank]
}

func (m *HashMap[K, V]) segment(slot int) Segment[V] {
	return m.segs[m.Owner(slot)]
}

// slot returns the probe-th slot of the probe sequence of hash h.
func (m *HashMap[K, V]) slot(h uint64, probe int) int {
	c := uint64(m.capacity)
	return int((h%c + uint64(probe)) % c)
}

// requestSlot claims slot if it is empty. On success the segment lock stays
// held until commit.
func (m *HashMap[K, V]) requestSlot(ctx context.Context, slot int) (bool, error) {
	seg, idx := m.segment(slot), m.LocalIndex(slot)

	if err := m.acquire(ctx, slot); err != nil {
		return false, err
	}

	state, err := seg.Used.Get(ctx, idx)
	if err != nil {
		_ = m.release(ctx, slot)
		return false, err
	}
	if state != Empty {
		return false, m.release(ctx, slot)
	}

	if err := seg.Used.Put(ctx, idx, Claimed); err != nil {
		_ = m.release(ctx, slot)
		return false, err
	}
	return true, nil
}

// commit writes v into a slot claimed by requestSlot, marks it committed and
// releases the segment lock.
func (m *HashMap[K, V]) commit(ctx context.Context, slot int, v V) (err error) {
	seg, idx := m.segment(slot), m.LocalIndex(slot)
	defer func() {
		rerr := m.release(ctx, slot)
		if err == nil {
			err = rerr
		}
	}()

	if err = seg.Values.Put(ctx, idx, v); err != nil {
		return err
	}
	return seg.Used.Put(ctx, idx, Committed)
}

// Insert stores v in the first free slot of its probe sequence. It returns
// false if all Capacity() slots of the sequence are taken. Keys are not
// deduplicated: inserting a key twice occupies two slots.
func (m *HashMap[K, V]) Insert(ctx context.Context, v V) (bool, error) {
	m.inserts.Add(1)
	h := v.Key().Hash()

	for probe := 0; probe < m.capacity; probe++ {
		m.probes.Add(1)
		slot := m.slot(h, probe)

		ok, err := m.requestSlot(ctx, slot)
		if err != nil {
			return false, errors.Wrapf(err, "request slot %d", slot)
		}
		if !ok {
			continue
		}

		if err := m.commit(ctx, slot, v); err != nil {
			return false, errors.Wrapf(err, "commit slot %d", slot)
		}
		return true, nil
	}

	return false, nil
}

// Find returns the value stored under k. It takes no locks and only looks at
// committed slots, sweeping the whole probe sequence before giving up.
func (m *HashMap[K, V]) Find(ctx context.Context, k K) (v V, found bool, err error) {
	m.finds.Add(1)
	h := k.Hash()

	for probe := 0; probe < m.capacity; probe++ {
		m.probes.Add(1)
		slot := m.slot(h, probe)
		seg, idx := m.segment(slot), m.LocalIndex(slot)

		state, err := seg.Used.Get(ctx, idx)
		if err != nil {
			return v, false, errors.Wrapf(err, "read state of slot %d", slot)
		}
		if state != Committed {
			continue
		}

		stored, err := seg.Values.Get(ctx, idx)
		if err != nil {
			return v, false, errors.Wrapf(err, "read slot %d", slot)
		}
		if stored.Key() == k {
			return stored, true, nil
		}
	}

	return v, false, nil
}
