package fs

import (
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Stat returns a FileInfo structure describing the named file.
// If there is an error, it will be of type *PathError.
func Stat(name string) (os.FileInfo, error) {
	return os.Stat(fixpath(name))
}

// MkdirAll creates a directory named path, along with any necessary parents,
// and returns nil, or else returns an error. If path is already a directory,
// MkdirAll does nothing and returns nil.
func MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(fixpath(path), perm)
}

// Create creates or truncates the named file for writing.
func Create(name string) (*os.File, error) {
	return os.Create(fixpath(name))
}

// RemoveIfExists removes a file, returning no error if it does not exist.
func RemoveIfExists(filename string) error {
	err := os.Remove(fixpath(filename))
	if err != nil && os.IsNotExist(err) {
		err = nil
	}
	return err
}

// Open opens a file for reading. Files ending in ".zst" or ".gz" are
// decompressed on the fly.
func Open(name string) (File, error) {
	f, err := os.Open(fixpath(name))
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "zstd reader for %v", name)
		}
		rc := dec.IOReadCloser()
		return &decompressed{Reader: rc, name: f.Name(), closers: []func() error{rc.Close, f.Close}}, nil

	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "gzip reader for %v", name)
		}
		return &decompressed{Reader: gz, name: f.Name(), closers: []func() error{gz.Close, f.Close}}, nil
	}

	return f, nil
}
