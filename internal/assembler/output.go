package assembler

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/kmerasm/internal/fs"
	"github.com/skyline93/kmerasm/internal/kmer"
)

// OutputName returns the file test mode writes the contigs of rank to.
func OutputName(dir string, rank int) string {
	return filepath.Join(dir, fmt.Sprintf("test_%d.dat", rank))
}

// writeContigs writes one rendered contig per line to name.
func writeContigs(name string, contigs [][]kmer.Pair) error {
	f, err := fs.Create(name)
	if err != nil {
		return errors.Wrap(err, "create output")
	}

	h := sha256.New()
	wr := bufio.NewWriter(io.MultiWriter(f, h))
	for _, c := range contigs {
		if _, err := fmt.Fprintln(wr, kmer.Render(c)); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "write %v", name)
		}
	}

	if err := wr.Flush(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %v", name)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %v", name)
	}

	log.Debugf("wrote %d contigs to %v, sha256 %x", len(contigs), name, h.Sum(nil))
	return nil
}
