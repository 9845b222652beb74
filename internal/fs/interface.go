package fs

import "io"

// File is an input opened with Open.
type File interface {
	io.Reader
	io.Closer

	Name() string
}

type decompressed struct {
	io.Reader
	name    string
	closers []func() error
}

func (d *decompressed) Name() string {
	return d.name
}

// Close closes the decompressor and the underlying file, returning the first
// error.
func (d *decompressed) Close() error {
	var err error
	for _, c := range d.closers {
		if cerr := c(); err == nil {
			err = cerr
		}
	}
	return err
}
