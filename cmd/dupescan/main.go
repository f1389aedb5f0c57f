package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dupescan/dupescan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "A near-duplicate document detector",
	Long: `dupescan finds near-duplicate text documents using MinHash sketches
and locality-sensitive hashing.

Documents are reduced to fixed-size sketches of token shingles; the
banding index then compares each document only against candidates that
share a sketch band, so a scan stays fast even on large corpora.

Features:
  • MinHash sketching with configurable shingle size
  • LSH banding index tuned around a similarity threshold
  • Pairwise document comparison
  • Text, JSON, YAML and CSV reports`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
