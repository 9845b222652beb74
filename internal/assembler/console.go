package assembler

import (
	"fmt"
	"io"
	"sync"

	"github.com/skyline93/kmerasm/internal/spmd"
)

// Console prints the user facing lines of a run. Lines of different ranks are
// never interleaved.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Printf prints on rank 0 only.
func (c *Console) Printf(r *spmd.Rank, format string, args ...interface{}) {
	if r.Me() != 0 {
		return
	}
	c.RankPrintf(format, args...)
}

// RankPrintf prints on every rank that calls it.
func (c *Console) RankPrintf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, format, args...)
}
