package domain

import (
	"github.com/dupescan/dupescan/internal/constants"
)

// DefaultDedupRequest returns a default scan request. The banding defaults
// trade recall against precision around a 0.9 similarity threshold.
func DefaultDedupRequest() *DedupRequest {
	return &DedupRequest{
		Paths:               []string{"."},
		Recursive:           true,
		IncludePatterns:     []string{"**/*.txt", "**/*.md"},
		ExcludePatterns:     []string{},
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
		ShingleTokens:       constants.DefaultShingleTokens,
		NumHashFunctions:    constants.DefaultNumHashFunctions,
		Bands:               constants.DefaultLSHBands,
		Rows:                constants.DefaultLSHRows,
		OutputFormat:        OutputFormatText,
		ShowDetails:         false,
		SortBy:              SortBySimilarity,
	}
}
