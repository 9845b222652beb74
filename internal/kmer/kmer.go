// Package kmer holds the k-mer records the assembler stores in the
// distributed table, together with reading them from files and rendering
// contigs.
package kmer

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
	"github.com/twmb/murmur3"
)

// MaxLen is the longest k-mer that can be packed.
const MaxLen = 128

const words = MaxLen / 32

// Terminal marks the start or end of a sequence in an extension.
const Terminal = 'F'

var bases = [4]byte{'A', 'C', 'G', 'T'}

func code(b byte) (uint64, bool) {
	switch b {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	}
	return 0, false
}

// Kmer is a packed k-mer, two bits per base. Kmers are comparable with ==.
type Kmer struct {
	bits [words]uint64
	n    uint8
}

// Parse packs s, which must only contain the bases A, C, G and T.
func Parse(s string) (Kmer, error) {
	var k Kmer
	if len(s) == 0 || len(s) > MaxLen {
		return k, errors.Errorf("k-mer length %d not in [1, %d]", len(s), MaxLen)
	}

	k.n = uint8(len(s))
	for i := 0; i < len(s); i++ {
		c, ok := code(s[i])
		if !ok {
			return Kmer{}, errors.Errorf("invalid base %q at position %d of %q", s[i], i, s)
		}
		k.set(i, c)
	}
	return k, nil
}

func (k *Kmer) set(i int, c uint64) {
	k.bits[i/32] |= c << (uint(i%32) * 2)
}

func (k Kmer) at(i int) uint64 {
	return (k.bits[i/32] >> (uint(i%32) * 2)) & 3
}

// Len returns the number of bases.
func (k Kmer) Len() int {
	return int(k.n)
}

func (k Kmer) String() string {
	var sb strings.Builder
	sb.Grow(k.Len())
	for i := 0; i < k.Len(); i++ {
		sb.WriteByte(bases[k.at(i)])
	}
	return sb.String()
}

// Hash returns the murmur3 hash of the packed k-mer.
func (k Kmer) Hash() uint64 {
	var buf [words*8 + 1]byte
	for i, w := range k.bits {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	buf[words*8] = k.n
	return murmur3.Sum64(buf[:])
}

// Next returns the k-mer that follows k when extended by base ext: the first
// base is dropped and ext is appended.
func (k Kmer) Next(ext byte) (Kmer, error) {
	c, ok := code(ext)
	if !ok {
		return Kmer{}, errors.Errorf("cannot extend %v with %q", k, ext)
	}

	next := Kmer{n: k.n}
	for i := 1; i < k.Len(); i++ {
		next.set(i-1, k.at(i))
	}
	next.set(k.Len()-1, c)
	return next, nil
}
