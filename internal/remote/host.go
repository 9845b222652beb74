// Package remote models memory that is owned by one rank and accessed by all
// ranks through explicit, synchronous read and write operations.
package remote

import (
	"context"

	"github.com/pkg/errors"
)

// Host is the memory of a single rank. Every access to memory owned by a host
// goes through Do.
type Host interface {
	// Rank returns the rank that owns this host.
	Rank() int

	// Do runs fn atomically with respect to every other access to memory of
	// the same host and returns once fn has completed.
	Do(ctx context.Context, fn func()) error
}

// Fabric connects the hosts of all ranks of a run.
type Fabric interface {
	Size() int
	Host(rank int) Host
	Close() error
}

// Transport names accepted by Open.
const (
	TransportShared  = "shared"
	TransportMailbox = "mailbox"
)

var (
	// ErrClosed is returned for operations on a fabric that has been closed.
	ErrClosed = errors.New("fabric closed")

	// ErrOutOfRange is returned for accesses past the end of an array.
	ErrOutOfRange = errors.New("index out of range")
)

// Open returns a fabric for n ranks using the named transport.
func Open(transport string, n int) (Fabric, error) {
	if n < 1 {
		return nil, errors.Errorf("invalid number of ranks %d", n)
	}

	switch transport {
	case TransportShared, "":
		return NewShared(n), nil
	case TransportMailbox:
		return NewMailbox(n), nil
	}

	return nil, errors.Errorf("unknown transport %q, expected %q or %q", transport, TransportShared, TransportMailbox)
}
