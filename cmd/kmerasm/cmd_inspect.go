package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyline93/kmerasm/internal/kmer"
)

var cmdInspect = &cobra.Command{
	Use:   "inspect kmer_file",
	Short: "Print the k-mer length and record count of a k-mer file",
	Long: `
The "inspect" command prints the length of the k-mers stored in a file and the
number of records it holds, which is what a run checks and sizes its hash
table with.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := kmer.Size(args[0])
		if err != nil {
			return err
		}
		n, err := kmer.LineCount(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "k-mer length: %d\nrecords:      %d\n", size, n)
		return nil
	},
}

func init() {
	cmdRoot.AddCommand(cmdInspect)
}
