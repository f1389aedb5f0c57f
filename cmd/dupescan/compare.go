package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dupescan/dupescan/domain"
	"github.com/dupescan/dupescan/service"
)

// CompareCommand handles the pairwise comparison CLI command
type CompareCommand struct {
	similarityThreshold float64
	shingleTokens       int
	numHashFunctions    int
	bands               int
	rows                int
	seed                int64
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	defaults := domain.DefaultDedupRequest()
	return &CompareCommand{
		similarityThreshold: defaults.SimilarityThreshold,
		shingleTokens:       defaults.ShingleTokens,
		numHashFunctions:    defaults.NumHashFunctions,
		bands:               defaults.Bands,
		rows:                defaults.Rows,
	}
}

// CreateCobraCommand creates the Cobra command for pairwise comparison
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Estimate the similarity of two documents",
		Long: `Estimate the similarity of two text documents.

Both documents are sketched with the same hash family and the reported
value is the fraction of sketch positions on which they agree, an
estimate of the Jaccard similarity of their shingle sets.

Examples:
  # Compare two files
  dupescan compare a.txt b.txt

  # Compare with a fixed seed for reproducible estimates
  dupescan compare --seed 42 a.txt b.txt`,
		Args: cobra.ExactArgs(2),
		RunE: c.runCompare,
	}

	cmd.Flags().Float64VarP(&c.similarityThreshold, "threshold", "t", c.similarityThreshold,
		"Similarity threshold for the near-duplicate verdict (0.0-1.0)")
	cmd.Flags().IntVar(&c.shingleTokens, "shingle-tokens", c.shingleTokens,
		"Number of tokens per shingle")
	cmd.Flags().IntVar(&c.numHashFunctions, "hashes", c.numHashFunctions,
		"Number of MinHash functions (must equal bands * rows)")
	cmd.Flags().IntVar(&c.bands, "bands", c.bands, "Number of LSH bands")
	cmd.Flags().IntVar(&c.rows, "rows", c.rows, "Rows per LSH band")
	cmd.Flags().Int64Var(&c.seed, "seed", c.seed,
		"Random seed for reproducible sketches (0 = time-seeded)")

	_ = cmd.Flags().MarkHidden("bands")
	_ = cmd.Flags().MarkHidden("rows")

	return cmd
}

// runCompare executes the compare command
func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	fileReader := service.NewFileReader()

	doc1, err := fileReader.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	doc2, err := fileReader.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	request := domain.DefaultDedupRequest()
	request.Paths = args
	request.SimilarityThreshold = c.similarityThreshold
	request.ShingleTokens = c.shingleTokens
	request.NumHashFunctions = c.numHashFunctions
	request.Bands = c.bands
	request.Rows = c.rows
	request.Seed = c.seed

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	useCase, err := createDedupUseCase()
	if err != nil {
		return fmt.Errorf("failed to create use case: %w", err)
	}

	similarity, err := useCase.CompareDocuments(context.Background(), string(doc1), string(doc2), *request)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Similarity: %.3f\n", similarity)
	if similarity >= c.similarityThreshold {
		fmt.Fprintf(cmd.OutOrStdout(), "Documents are near-duplicates (threshold %.2f)\n", c.similarityThreshold)
	}

	return nil
}

// NewCompareCmd creates the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
