package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var logLevel string

// cmdRoot assembles contigs when called with a k-mer file.
var cmdRoot = &cobra.Command{
	Use:   "kmerasm kmer_file [verbose|test]",
	Short: "Assemble contigs from k-mers using a distributed hash table",
	Long: `
kmerasm reads a file of k-mers, one "<kmer> <backward><forward>" record per
line, into a hash table spread over a team of ranks and reconstructs the
contigs they spell.

The optional mode "verbose" prints phase timings and a summary per rank, the
mode "test" writes the contigs of every rank to test_<rank>.dat instead.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and 1 if there was any error.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAssemble(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	cmdRoot.PersistentFlags().StringVar(&logLevel, "log-level", "warning", "log `level` (debug, info, warning, error)")
}

func setupLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmdRoot.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
