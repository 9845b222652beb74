package kmer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequence = "GATTACAGATTACACCGGTTAACCGGTTAAGCGCGCATATATCG"

func TestParseString(t *testing.T) {
	long := strings.Repeat("ACGT", 32)
	for _, s := range []string{"A", "ACGT", "TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTG", long} {
		k, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, len(s), k.Len())
		assert.Equal(t, s, k.String())
	}

	for _, s := range []string{"", "ACGN", long + "A"} {
		_, err := Parse(s)
		assert.Errorf(t, err, "parse %q", s)
	}
}

func TestHashAndEquality(t *testing.T) {
	a, err := Parse("ACGTACGTAC")
	require.NoError(t, err)
	b, err := Parse("ACGTACGTAC")
	require.NoError(t, err)
	c, err := Parse("ACGTACGTAG")
	require.NoError(t, err)
	short, err := Parse("ACGTACGTA")
	require.NoError(t, err)

	assert.True(t, a == b)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a == c)
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.NotEqual(t, a.Hash(), short.Hash(), "length is part of the key")
}

func TestNext(t *testing.T) {
	k, err := Parse("GATTACA")
	require.NoError(t, err)

	next, err := k.Next('T')
	require.NoError(t, err)
	assert.Equal(t, "ATTACAT", next.String())

	want, err := Parse("ATTACAT")
	require.NoError(t, err)
	assert.True(t, next == want, "shifted k-mer compares equal to the parsed one")

	_, err = k.Next(Terminal)
	assert.Error(t, err)
}

func TestNewPair(t *testing.T) {
	p, err := NewPair("ACGT", "FC")
	require.NoError(t, err)
	assert.Equal(t, byte('F'), p.BackwardExt())
	assert.Equal(t, byte('C'), p.ForwardExt())
	assert.Equal(t, "ACGT FC", p.String())

	next, err := p.NextKmer()
	require.NoError(t, err)
	assert.Equal(t, "CGTC", next.String())

	for _, ext := range []string{"", "F", "FX", "ACG"} {
		_, err := NewPair("ACGT", ext)
		assert.Errorf(t, err, "extension %q", ext)
	}
}

func TestDecomposeRender(t *testing.T) {
	pairs, err := Decompose(sequence, 7)
	require.NoError(t, err)
	require.Len(t, pairs, len(sequence)-7+1)

	assert.Equal(t, byte(Terminal), pairs[0].BackwardExt())
	assert.Equal(t, byte(Terminal), pairs[len(pairs)-1].ForwardExt())

	for i := 0; i+1 < len(pairs); i++ {
		next, err := pairs[i].NextKmer()
		require.NoError(t, err)
		assert.True(t, next == pairs[i+1].Key(), "pair %d links to pair %d", i, i+1)
	}

	assert.Equal(t, sequence, Render(pairs))
	assert.Equal(t, "", Render(nil))

	_, err = Decompose("ACG", 4)
	assert.Error(t, err)
}

func writeKmers(t *testing.T, name string, pairs []Pair) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Write(f, pairs))
	require.NoError(t, f.Close())
	return path
}

func TestSizeAndLineCount(t *testing.T) {
	pairs, err := Decompose(sequence, 9)
	require.NoError(t, err)
	path := writeKmers(t, "kmers.txt", pairs)

	size, err := Size(path)
	require.NoError(t, err)
	assert.Equal(t, 9, size)
	assert.NoError(t, CheckSize(path, 9))

	err = CheckSize(path, 51)
	var mismatch *LengthMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 9, mismatch.Found)
	assert.Equal(t, 51, mismatch.Want)
	assert.Contains(t, err.Error(), "contains 9-mers")

	n, err := LineCount(path)
	require.NoError(t, err)
	assert.Equal(t, len(pairs), n)

	empty := writeKmers(t, "empty.txt", nil)
	_, err = Size(empty)
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestPartition(t *testing.T) {
	covered := 0
	for me := 0; me < 3; me++ {
		start, count := Partition(10, 3, me)
		assert.Equal(t, covered, start)
		covered += count
	}
	assert.Equal(t, 10, covered)

	start, count := Partition(10, 3, 2)
	assert.Equal(t, 6, start)
	assert.Equal(t, 4, count, "last rank takes the remainder")
}

func TestReadAssigned(t *testing.T) {
	pairs, err := Decompose(sequence, 11)
	require.NoError(t, err)
	path := writeKmers(t, "kmers.txt", pairs)

	var all []Pair
	for me := 0; me < 4; me++ {
		got, err := ReadAssigned(path, 4, me)
		require.NoError(t, err)
		all = append(all, got...)
	}
	assert.Equal(t, pairs, all)

	_, err = ReadAssigned(path, 4, 4)
	assert.Error(t, err)
}

func TestReadAssignedCompressed(t *testing.T) {
	pairs, err := Decompose(sequence, 5)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, Write(&sb, pairs))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "kmers.txt.zst")
	require.NoError(t, os.WriteFile(path, enc.EncodeAll([]byte(sb.String()), nil), 0600))
	require.NoError(t, enc.Close())

	got, err := ReadAssigned(path, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, pairs, got)
}

func TestReadAssignedBadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte("ACGT FA\nACGX AC\n"), 0600))

	_, err := ReadAssigned(path, 1, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}
