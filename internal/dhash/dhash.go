// Package dhash implements a fixed capacity open addressing hash table whose
// slots are spread over the memory of all ranks of a team.
//
// Slot s belongs to rank s / PerRank() and lives at index s % PerRank() of
// that rank's segment. Every rank contributes one segment during Bootstrap.
// Insert claims a slot under the lock of the owning segment, Find reads
// without taking any lock.
//
// A rank that dies while holding a segment lock stalls every other rank that
// needs that segment. There is no timeout and no recovery; a run that loses a
// rank is only ended by cancelling its context.
package dhash

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// Key is the type looked up in the table.
type Key interface {
	comparable
	Hash() uint64
}

// Entry is the record stored in the table, carrying its own key.
type Entry[K Key] interface {
	Key() K
}

// SlotState is the occupancy of a slot. A slot moves from Empty to Claimed to
// Committed and never back.
type SlotState uint8

const (
	// Empty slots hold no value.
	Empty SlotState = iota
	// Claimed slots are reserved by an insert which has not written its value yet.
	Claimed
	// Committed slots hold a value.
	Committed
)

func (s SlotState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Claimed:
		return "claimed"
	case Committed:
		return "committed"
	}
	return "invalid"
}

// Lock word values.
const (
	Free uint64 = 0
	Held uint64 = 1
)

var (
	// ErrCapacity is returned when the capacity cannot be split evenly over
	// the ranks.
	ErrCapacity = errors.New("invalid capacity")

	// ErrIncomplete is returned when the directory is read before every rank
	// registered its segment.
	ErrIncomplete = errors.New("directory incomplete")

	errLockHeld = errors.New("lock held")
)

// Options tune a HashMap.
type Options struct {
	// LockBackOff returns the pacing used while spinning on a held segment
	// lock. It must never give up on its own.
	LockBackOff func() backoff.BackOff
}

func defaultLockBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Microsecond
	b.MaxInterval = 5 * time.Millisecond
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (o Options) withDefaults() Options {
	if o.LockBackOff == nil {
		o.LockBackOff = defaultLockBackOff
	}
	return o
}

// Size returns the capacity for nKeys keys at the given load factor, rounded
// down to a multiple of ranks, together with the number of slots per rank.
// Every rank gets at least one slot.
func Size(nKeys int, loadFactor float64, ranks int) (capacity, perRank int, err error) {
	if ranks < 1 {
		return 0, 0, errors.Errorf("invalid number of ranks %d", ranks)
	}
	if loadFactor <= 0 || loadFactor > 1 {
		return 0, 0, errors.Errorf("load factor %v not in (0, 1]", loadFactor)
	}
	if nKeys < 0 {
		return 0, 0, errors.Errorf("invalid number of keys %d", nKeys)
	}

	perRank = int(float64(nKeys)/loadFactor) / ranks
	if perRank < 1 {
		perRank = 1
	}
	return perRank * ranks, perRank, nil
}
