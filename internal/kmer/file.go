package kmer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/kmerasm/internal/fs"
)

// LengthMismatchError is returned when a file holds k-mers of a different
// length than the run is configured for.
type LengthMismatchError struct {
	Path  string
	Found int
	Want  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s contains %d-mers, while this run is configured for %d-mers", e.Path, e.Found, e.Want)
}

// ErrEmptyFile is returned for files without any k-mer.
var ErrEmptyFile = errors.New("no k-mers in file")

// scan calls fn for every non-empty line of the file with its zero based
// record number. fn returns false to stop early.
func scan(path string, fn func(n int, line string) (bool, error)) error {
	f, err := fs.Open(path)
	if err != nil {
		return errors.Wrap(err, "open k-mer file")
	}

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		more, err := fn(n, line)
		if err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "%v: record %d", path, n+1)
		}
		if !more {
			break
		}
		n++
	}

	if err := sc.Err(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "read %v", path)
	}
	return f.Close()
}

func parseLine(line string) (Pair, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Pair{}, errors.Errorf("expected k-mer and extension, got %q", line)
	}
	return NewPair(fields[0], fields[1])
}

// Size returns the length of the k-mers stored in path, taken from the first
// record.
func Size(path string) (int, error) {
	size := -1
	err := scan(path, func(_ int, line string) (bool, error) {
		size = len(strings.Fields(line)[0])
		return false, nil
	})
	if err != nil {
		return 0, err
	}
	if size < 0 {
		return 0, errors.Wrap(ErrEmptyFile, path)
	}
	return size, nil
}

// CheckSize fails with a *LengthMismatchError unless path holds want-mers.
func CheckSize(path string, want int) error {
	found, err := Size(path)
	if err != nil {
		return err
	}
	if found != want {
		return &LengthMismatchError{Path: path, Found: found, Want: want}
	}
	return nil
}

// LineCount returns the number of records in path.
func LineCount(path string) (int, error) {
	count := 0
	err := scan(path, func(_ int, _ string) (bool, error) {
		count++
		return true, nil
	})
	return count, err
}

// Partition returns the first record and the number of records assigned to
// rank me out of total records split over n ranks. Ranks get equal blocks and
// the last rank also takes the remainder.
func Partition(total, n, me int) (start, count int) {
	split := total / n
	start = split * me
	count = split
	if me == n-1 {
		count = total - start
	}
	return start, count
}

// ReadAssigned reads the block of records assigned to rank me of n.
func ReadAssigned(path string, n, me int) ([]Pair, error) {
	if n < 1 || me < 0 || me >= n {
		return nil, errors.Errorf("invalid rank %d of %d", me, n)
	}

	total, err := LineCount(path)
	if err != nil {
		return nil, err
	}
	start, count := Partition(total, n, me)

	pairs := make([]Pair, 0, count)
	err = scan(path, func(i int, line string) (bool, error) {
		if i < start {
			return true, nil
		}
		if i >= start+count {
			return false, nil
		}

		p, err := parseLine(line)
		if err != nil {
			return false, err
		}
		pairs = append(pairs, p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.WithField("rank", me).Debugf("read records [%d, %d) of %d from %v", start, start+count, total, path)
	return pairs, nil
}

// Write writes pairs in the format read by ReadAssigned.
func Write(w io.Writer, pairs []Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		if _, err := fmt.Fprintln(bw, p.String()); err != nil {
			return errors.Wrap(err, "write k-mer")
		}
	}
	return bw.Flush()
}
