package remote

import "context"

// Word is a single 64 bit value living in the memory of one host. Every method
// is one atomic remote operation.
type Word struct {
	host Host
	v    uint64
}

// NewWord allocates a word on host holding init.
func NewWord(host Host, init uint64) *Word {
	return &Word{host: host, v: init}
}

// Owner returns the rank whose memory holds the word.
func (w *Word) Owner() int {
	return w.host.Rank()
}

func (w *Word) Load(ctx context.Context) (v uint64, err error) {
	err = w.host.Do(ctx, func() {
		v = w.v
	})
	return v, err
}

func (w *Word) Store(ctx context.Context, v uint64) error {
	return w.host.Do(ctx, func() {
		w.v = v
	})
}

// CompareAndSwap stores new if the word holds old and reports whether it did.
func (w *Word) CompareAndSwap(ctx context.Context, old, new uint64) (swapped bool, err error) {
	err = w.host.Do(ctx, func() {
		if w.v == old {
			w.v = new
			swapped = true
		}
	})
	return swapped, err
}

// Add adds delta to the word and returns the new value.
func (w *Word) Add(ctx context.Context, delta uint64) (v uint64, err error) {
	err = w.host.Do(ctx, func() {
		w.v += delta
		v = w.v
	})
	return v, err
}
