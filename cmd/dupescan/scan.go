package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dupescan/dupescan/app"
	"github.com/dupescan/dupescan/domain"
	"github.com/dupescan/dupescan/internal/config"
	"github.com/dupescan/dupescan/service"
)

// ScanCommand handles the duplicate scan CLI command
type ScanCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Sketch configuration
	similarityThreshold float64
	shingleTokens       int
	numHashFunctions    int
	bands               int
	rows                int
	seed                int64

	// Output format flags (only one should be true)
	json bool
	yaml bool
	csv  bool

	// Output options
	showDetails bool
	sortBy      string
}

// NewScanCommand creates a new scan command
func NewScanCommand() *ScanCommand {
	defaults := domain.DefaultDedupRequest()
	return &ScanCommand{
		recursive:           defaults.Recursive,
		includePatterns:     defaults.IncludePatterns,
		excludePatterns:     defaults.ExcludePatterns,
		similarityThreshold: defaults.SimilarityThreshold,
		shingleTokens:       defaults.ShingleTokens,
		numHashFunctions:    defaults.NumHashFunctions,
		bands:               defaults.Bands,
		rows:                defaults.Rows,
		sortBy:              string(defaults.SortBy),
	}
}

// CreateCobraCommand creates the Cobra command for duplicate scanning
func (c *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan documents for near-duplicates",
		Long: `Scan text documents for near-duplicates using MinHash sketches.

Each document is sketched and looked up in an LSH banding index; a
document similar to one seen earlier in the scan is reported together
with the matched document and the estimated similarity.

Examples:
  # Scan the current directory
  dupescan scan .

  # Scan with a custom similarity threshold
  dupescan scan --threshold 0.8 corpus/

  # Reproducible scan with a fixed seed
  dupescan scan --seed 42 corpus/

  # Output results as JSON
  dupescan scan --json corpus/ > duplicates.json`,
		RunE: c.runScan,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively scan directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", c.includePatterns,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", c.excludePatterns,
		"File patterns to exclude")

	// Sketch configuration flags
	cmd.Flags().Float64VarP(&c.similarityThreshold, "threshold", "t", c.similarityThreshold,
		"Similarity threshold for duplicate detection (0.0-1.0)")
	cmd.Flags().IntVar(&c.shingleTokens, "shingle-tokens", c.shingleTokens,
		"Number of tokens per shingle")
	cmd.Flags().IntVar(&c.numHashFunctions, "hashes", c.numHashFunctions,
		"Number of MinHash functions (must equal bands * rows)")
	cmd.Flags().IntVar(&c.bands, "bands", c.bands,
		"Number of LSH bands")
	cmd.Flags().IntVar(&c.rows, "rows", c.rows,
		"Rows per LSH band")
	cmd.Flags().Int64Var(&c.seed, "seed", c.seed,
		"Random seed for reproducible sketches (0 = time-seeded)")

	// Advanced banding parameters stay in the config file normally.
	_ = cmd.Flags().MarkHidden("shingle-tokens")
	_ = cmd.Flags().MarkHidden("hashes")
	_ = cmd.Flags().MarkHidden("bands")
	_ = cmd.Flags().MarkHidden("rows")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")

	// Output options
	cmd.Flags().BoolVarP(&c.showDetails, "details", "d", c.showDetails,
		"Include the effective request in the report")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy,
		"Sort results by: similarity, location")

	return cmd
}

// runScan executes the scan command
func (c *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request, err := c.createRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create scan request: %w", err)
	}

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	useCase, err := createDedupUseCase()
	if err != nil {
		return fmt.Errorf("failed to create scan use case: %w", err)
	}

	if err := useCase.Execute(context.Background(), *request); err != nil {
		return fmt.Errorf("duplicate scan failed: %w", err)
	}

	return nil
}

// createRequest builds a scan request from discovered configuration and
// explicitly set CLI flags.
func (c *ScanCommand) createRequest(cmd *cobra.Command, paths []string) (*domain.DedupRequest, error) {
	workDir := "."
	if len(paths) > 0 {
		workDir = paths[0]
	}

	cfg, err := c.loadConfigWithFallback(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	c.applyCliOverrides(cfg, cmd)

	outputFormat, err := service.NewOutputFormatResolver().Determine(c.json, c.yaml, c.csv)
	if err != nil {
		return nil, err
	}

	sortBy, err := c.parseSortCriteria(cfg.Output.SortBy)
	if err != nil {
		return nil, err
	}

	request := &domain.DedupRequest{
		Paths:           paths,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,

		SimilarityThreshold: cfg.Sketch.SimilarityThreshold,
		ShingleTokens:       cfg.Sketch.ShingleTokens,
		NumHashFunctions:    cfg.Sketch.NumHashFunctions,
		Bands:               cfg.Sketch.Bands,
		Rows:                cfg.Sketch.Rows,
		Seed:                cfg.Sketch.Seed,

		OutputFormat: outputFormat,
		OutputWriter: os.Stdout,
		SortBy:       sortBy,
	}

	if cfg.Input.Recursive != nil {
		request.Recursive = *cfg.Input.Recursive
	}
	if cfg.Output.ShowDetails != nil {
		request.ShowDetails = *cfg.Output.ShowDetails
	}

	return request, nil
}

// parseSortCriteria parses and validates the sort criteria
func (c *ScanCommand) parseSortCriteria(sort string) (domain.SortCriteria, error) {
	switch sort {
	case "similarity", "":
		return domain.SortBySimilarity, nil
	case "location":
		return domain.SortByLocation, nil
	default:
		return "", fmt.Errorf("unsupported sort criteria: %s (supported: similarity, location)", sort)
	}
}

// loadConfigWithFallback loads configuration by walking up from workDir
// looking for .dupescan.toml, falling back to defaults. An explicit
// --config path wins over discovery.
func (c *ScanCommand) loadConfigWithFallback(workDir string) (*config.DedupConfig, error) {
	if c.configFile != "" {
		return config.NewTomlConfigLoader().LoadConfigFile(c.configFile)
	}
	return config.NewTomlConfigLoader().LoadConfig(workDir)
}

// applyCliOverrides applies explicitly set CLI flags over the config values.
// Flags the user never touched leave the file values alone.
func (c *ScanCommand) applyCliOverrides(cfg *config.DedupConfig, cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "recursive":
			cfg.Input.Recursive = &c.recursive
		case "include":
			cfg.Input.IncludePatterns = c.includePatterns
		case "exclude":
			cfg.Input.ExcludePatterns = c.excludePatterns
		case "threshold":
			cfg.Sketch.SimilarityThreshold = c.similarityThreshold
		case "shingle-tokens":
			cfg.Sketch.ShingleTokens = c.shingleTokens
		case "hashes":
			cfg.Sketch.NumHashFunctions = c.numHashFunctions
		case "bands":
			cfg.Sketch.Bands = c.bands
		case "rows":
			cfg.Sketch.Rows = c.rows
		case "seed":
			cfg.Sketch.Seed = c.seed
		case "sort":
			cfg.Output.SortBy = c.sortBy
		case "details":
			cfg.Output.ShowDetails = &c.showDetails
		}
	})
}

// createDedupUseCase wires the scan use case with its service dependencies.
func createDedupUseCase() (*app.DedupUseCase, error) {
	fileReader := service.NewFileReader()

	return app.NewDedupUseCaseBuilder().
		WithService(service.NewDedupService(fileReader)).
		WithFileReader(fileReader).
		WithFormatter(service.NewDedupFormatter()).
		WithConfigLoader(service.NewDedupConfigurationLoader()).
		Build()
}

// NewScanCmd creates the scan cobra command
func NewScanCmd() *cobra.Command {
	return NewScanCommand().CreateCobraCommand()
}
