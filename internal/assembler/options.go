package assembler

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/skyline93/kmerasm/internal/kmer"
	"github.com/skyline93/kmerasm/internal/remote"
)

// Mode selects what a run reports.
type Mode string

const (
	// ModeNormal only reports the total assembly time.
	ModeNormal Mode = ""
	// ModeVerbose adds phase timings and a summary per rank.
	ModeVerbose Mode = "verbose"
	// ModeTest writes the contigs of every rank to test_<rank>.dat.
	ModeTest Mode = "test"
)

// ParseMode parses the optional run mode argument.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNormal, ModeVerbose, ModeTest:
		return m, nil
	}
	return "", errors.Errorf("unknown mode %q, expected %q or %q", s, ModeVerbose, ModeTest)
}

// DefaultKmerLen is the k-mer length runs are configured for unless told
// otherwise.
const DefaultKmerLen = 51

// Options configure a run.
type Options struct {
	Mode       Mode
	Ranks      int
	KmerLen    int
	LoadFactor float64
	Transport  string
	OutputDir  string
}

// NewOptions returns options with defaults applied.
func NewOptions() Options {
	return Options{
		Ranks:      runtime.NumCPU(),
		KmerLen:    DefaultKmerLen,
		LoadFactor: 0.5,
		Transport:  remote.TransportShared,
		OutputDir:  ".",
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.Ranks < 1 {
		return errors.Errorf("invalid number of ranks %d", o.Ranks)
	}
	if o.KmerLen < 1 || o.KmerLen > kmer.MaxLen {
		return errors.Errorf("k-mer length %d not in [1, %d]", o.KmerLen, kmer.MaxLen)
	}
	if o.LoadFactor <= 0 || o.LoadFactor > 1 {
		return errors.Errorf("load factor %v not in (0, 1]", o.LoadFactor)
	}
	return nil
}
