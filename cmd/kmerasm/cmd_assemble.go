package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/skyline93/kmerasm/internal/assembler"
)

var errUsage = errors.New("usage: kmerasm kmer_file [verbose|test]")

var assembleOptions = assembler.NewOptions()

func init() {
	f := cmdRoot.Flags()
	f.IntVar(&assembleOptions.Ranks, "ranks", assembleOptions.Ranks, "number of ranks to run")
	f.IntVar(&assembleOptions.KmerLen, "kmer-len", assembleOptions.KmerLen, "length of the k-mers the run is configured for")
	f.Float64Var(&assembleOptions.LoadFactor, "load-factor", assembleOptions.LoadFactor, "target load factor of the hash table")
	f.StringVar(&assembleOptions.Transport, "transport", assembleOptions.Transport, "remote memory transport (shared, mailbox)")
	f.StringVar(&assembleOptions.OutputDir, "output-dir", assembleOptions.OutputDir, "directory test mode writes test_<rank>.dat files to")
}

func runAssemble(ctx context.Context, out io.Writer, args []string) error {
	opts := assembleOptions

	if len(args) > 1 {
		mode, err := assembler.ParseMode(args[1])
		if err != nil {
			return err
		}
		opts.Mode = mode
	}

	_, err := assembler.Run(ctx, args[0], opts, assembler.NewConsole(out))
	return err
}
