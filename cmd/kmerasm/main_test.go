package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmdRoot.SetOut(&out)
	cmdRoot.SetArgs(args)
	err := cmdRoot.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsage(t *testing.T) {
	_, err := execute(t)
	assert.ErrorIs(t, err, errUsage)
	assert.EqualError(t, err, "usage: kmerasm kmer_file [verbose|test]")
}

func TestUnknownMode(t *testing.T) {
	_, err := execute(t, "kmers.txt", "loud")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	name := filepath.Join(t.TempDir(), "kmers.txt")
	require.NoError(t, os.WriteFile(name, []byte("ACG FT\nCGT AF\n"), 0o600))

	out, err := execute(t, "inspect", name)
	require.NoError(t, err)
	assert.Contains(t, out, "k-mer length: 3")
	assert.Contains(t, out, "records:      2")
}
