package config

import (
	"io"

	"github.com/dupescan/dupescan/internal/constants"
)

// DedupConfig represents the unified near-duplicate scan configuration.
type DedupConfig struct {
	// Input Configuration
	Input InputConfig `mapstructure:"input" toml:"input" yaml:"input" json:"input"`

	// Sketch Configuration
	Sketch SketchConfig `mapstructure:"sketch" toml:"sketch" yaml:"sketch" json:"sketch"`

	// Output Configuration
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
}

// InputConfig holds input selection configuration
type InputConfig struct {
	Paths           []string `mapstructure:"paths" toml:"paths" yaml:"paths" json:"paths"`
	Recursive       *bool    `mapstructure:"recursive" toml:"recursive" yaml:"recursive" json:"recursive"` // pointer to detect unset
	IncludePatterns []string `mapstructure:"include_patterns" toml:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" toml:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
}

// SketchConfig holds the MinHash/LSH parameters
type SketchConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" toml:"similarity_threshold" yaml:"similarity_threshold" json:"similarity_threshold"`
	ShingleTokens       int     `mapstructure:"shingle_tokens" toml:"shingle_tokens" yaml:"shingle_tokens" json:"shingle_tokens"`
	NumHashFunctions    int     `mapstructure:"num_hash_functions" toml:"num_hash_functions" yaml:"num_hash_functions" json:"num_hash_functions"`
	Bands               int     `mapstructure:"bands" toml:"bands" yaml:"bands" json:"bands"`
	Rows                int     `mapstructure:"rows" toml:"rows" yaml:"rows" json:"rows"`

	// Seed makes sketches reproducible when non-zero
	Seed int64 `mapstructure:"seed" toml:"seed" yaml:"seed" json:"seed"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	Format      string `mapstructure:"format" toml:"format" yaml:"format" json:"format"`
	ShowDetails *bool  `mapstructure:"show_details" toml:"show_details" yaml:"show_details" json:"show_details"` // pointer to detect unset
	SortBy      string `mapstructure:"sort_by" toml:"sort_by" yaml:"sort_by" json:"sort_by"`

	// Output destination (not serialized)
	Writer io.Writer `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// DefaultDedupConfig returns a configuration with sensible defaults
func DefaultDedupConfig() *DedupConfig {
	recursive := true
	showDetails := false

	return &DedupConfig{
		Input: InputConfig{
			Paths:           []string{"."},
			Recursive:       &recursive,
			IncludePatterns: []string{"**/*.txt", "**/*.md"},
			ExcludePatterns: []string{},
		},
		Sketch: SketchConfig{
			SimilarityThreshold: constants.DefaultSimilarityThreshold,
			ShingleTokens:       constants.DefaultShingleTokens,
			NumHashFunctions:    constants.DefaultNumHashFunctions,
			Bands:               constants.DefaultLSHBands,
			Rows:                constants.DefaultLSHRows,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: &showDetails,
			SortBy:      "similarity",
		},
	}
}

// merge overlays the non-zero values of other onto c.
func (c *DedupConfig) merge(other *DedupConfig) {
	if len(other.Input.Paths) > 0 {
		c.Input.Paths = other.Input.Paths
	}
	if other.Input.Recursive != nil {
		c.Input.Recursive = other.Input.Recursive
	}
	if len(other.Input.IncludePatterns) > 0 {
		c.Input.IncludePatterns = other.Input.IncludePatterns
	}
	if len(other.Input.ExcludePatterns) > 0 {
		c.Input.ExcludePatterns = other.Input.ExcludePatterns
	}

	if other.Sketch.SimilarityThreshold > 0 {
		c.Sketch.SimilarityThreshold = other.Sketch.SimilarityThreshold
	}
	if other.Sketch.ShingleTokens > 0 {
		c.Sketch.ShingleTokens = other.Sketch.ShingleTokens
	}
	if other.Sketch.NumHashFunctions > 0 {
		c.Sketch.NumHashFunctions = other.Sketch.NumHashFunctions
	}
	if other.Sketch.Bands > 0 {
		c.Sketch.Bands = other.Sketch.Bands
	}
	if other.Sketch.Rows > 0 {
		c.Sketch.Rows = other.Sketch.Rows
	}
	if other.Sketch.Seed != 0 {
		c.Sketch.Seed = other.Sketch.Seed
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.ShowDetails != nil {
		c.Output.ShowDetails = other.Output.ShowDetails
	}
	if other.Output.SortBy != "" {
		c.Output.SortBy = other.Output.SortBy
	}
}
