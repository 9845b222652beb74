package dhash

import (
	"github.com/skyline93/kmerasm/internal/remote"
)

// Segment is the slot storage contributed by one rank: parallel value and
// state arrays plus the lock guarding state transitions within them.
type Segment[V any] struct {
	Values *remote.Array[V]
	Used   *remote.Array[SlotState]
	Lock   *remote.Word
}

// NewSegment allocates a segment of size slots in the memory of host.
func NewSegment[V any](host remote.Host, size int) Segment[V] {
	return Segment[V]{
		Values: remote.NewArray[V](host, size),
		Used:   remote.NewArray[SlotState](host, size),
		Lock:   remote.NewWord(host, Free),
	}
}

// Valid reports whether all handles of the segment are set.
func (s Segment[V]) Valid() bool {
	return s.Values != nil && s.Used != nil && s.Lock != nil
}

// Owner returns the rank that contributed the segment.
func (s Segment[V]) Owner() int {
	return s.Values.Owner()
}
