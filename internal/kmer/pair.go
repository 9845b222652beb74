package kmer

import (
	"strings"

	"github.com/pkg/errors"
)

// Pair is a k-mer together with the bases that precede and follow it in the
// sequence it was taken from. Either extension may be Terminal.
type Pair struct {
	Kmer Kmer
	Ext  [2]byte
}

func validExt(b byte) bool {
	return strings.IndexByte("ACGTF", b) >= 0
}

// NewPair parses a k-mer and its two character extension, backward first.
func NewPair(kmer, ext string) (Pair, error) {
	if len(ext) != 2 || !validExt(ext[0]) || !validExt(ext[1]) {
		return Pair{}, errors.Errorf("invalid extension %q", ext)
	}

	k, err := Parse(kmer)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Kmer: k, Ext: [2]byte{ext[0], ext[1]}}, nil
}

// Key returns the k-mer the pair is stored under.
func (p Pair) Key() Kmer {
	return p.Kmer
}

func (p Pair) BackwardExt() byte {
	return p.Ext[0]
}

func (p Pair) ForwardExt() byte {
	return p.Ext[1]
}

// NextKmer returns the key of the k-mer following p. It fails for pairs that
// end a sequence.
func (p Pair) NextKmer() (Kmer, error) {
	return p.Kmer.Next(p.ForwardExt())
}

func (p Pair) String() string {
	return p.Kmer.String() + " " + string(p.Ext[:])
}

// Render returns the sequence spelled by a contig: the first k-mer followed by
// the forward extension of every pair that has one.
func Render(contig []Pair) string {
	if len(contig) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(contig[0].Kmer.String())
	for _, p := range contig {
		if p.ForwardExt() != Terminal {
			sb.WriteByte(p.ForwardExt())
		}
	}
	return sb.String()
}

// Decompose splits seq into its overlapping k-mers of length k, in order.
func Decompose(seq string, k int) ([]Pair, error) {
	if k < 1 || k > len(seq) {
		return nil, errors.Errorf("cannot split %d bases into %d-mers", len(seq), k)
	}

	pairs := make([]Pair, 0, len(seq)-k+1)
	for i := 0; i+k <= len(seq); i++ {
		ext := [2]byte{Terminal, Terminal}
		if i > 0 {
			ext[0] = seq[i-1]
		}
		if i+k < len(seq) {
			ext[1] = seq[i+k]
		}

		p, err := NewPair(seq[i:i+k], string(ext[:]))
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}
