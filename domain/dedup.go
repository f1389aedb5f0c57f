package domain

import (
	"context"
	"fmt"
	"io"
)

// DuplicateMatch records that a scanned document was judged a near-duplicate
// of a previously indexed one.
type DuplicateMatch struct {
	ID          int     `json:"id" yaml:"id" csv:"id"`
	Document    string  `json:"document" yaml:"document" csv:"document"`
	MatchedWith string  `json:"matched_with" yaml:"matched_with" csv:"matched_with"`
	Similarity  float64 `json:"similarity" yaml:"similarity" csv:"similarity"`
}

// String returns string representation of DuplicateMatch
func (m *DuplicateMatch) String() string {
	return fmt.Sprintf("%s ~ %s (similarity: %.3f)", m.Document, m.MatchedWith, m.Similarity)
}

// IndexStatistics describes the bucket table after a scan.
type IndexStatistics struct {
	Documents     int     `json:"documents" yaml:"documents"`
	Buckets       int     `json:"buckets" yaml:"buckets"`
	MaxBucketSize int     `json:"max_bucket_size" yaml:"max_bucket_size"`
	AvgBucketSize float64 `json:"avg_bucket_size" yaml:"avg_bucket_size"`
}

// DedupStatistics provides statistics about a duplicate scan
type DedupStatistics struct {
	FilesScanned      int              `json:"files_scanned" yaml:"files_scanned"`
	FilesSkipped      int              `json:"files_skipped" yaml:"files_skipped"`
	DuplicatesFound   int              `json:"duplicates_found" yaml:"duplicates_found"`
	UniqueDocuments   int              `json:"unique_documents" yaml:"unique_documents"`
	AverageSimilarity float64          `json:"average_similarity" yaml:"average_similarity"`
	Index             *IndexStatistics `json:"index,omitempty" yaml:"index,omitempty"`
}

// DedupRequest represents a request for a near-duplicate scan
type DedupRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Sketching configuration
	SimilarityThreshold float64 `json:"similarity_threshold"`
	ShingleTokens       int     `json:"shingle_tokens"`
	NumHashFunctions    int     `json:"num_hash_functions"`
	Bands               int     `json:"bands"`
	Rows                int     `json:"rows"`

	// Seed makes sketches reproducible when non-zero; zero means a
	// time-seeded random source.
	Seed int64 `json:"seed"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowDetails  bool         `json:"show_details"`
	SortBy       SortCriteria `json:"sort_by"`

	// Configuration file
	ConfigPath string `json:"config_path"`
}

// DedupResponse represents the result of a near-duplicate scan
type DedupResponse struct {
	// Results
	Duplicates []*DuplicateMatch `json:"duplicates" yaml:"duplicates"`
	Statistics *DedupStatistics  `json:"statistics" yaml:"statistics"`

	// Metadata
	Request  *DedupRequest `json:"request,omitempty" yaml:"request,omitempty"`
	Duration int64         `json:"duration_ms" yaml:"duration_ms"`
	Success  bool          `json:"success" yaml:"success"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// DedupService defines the interface for near-duplicate scan services
type DedupService interface {
	// ScanPaths scans the request's paths for near-duplicate documents
	ScanPaths(ctx context.Context, req *DedupRequest) (*DedupResponse, error)

	// ScanFiles scans specific files for near-duplicate documents
	ScanFiles(ctx context.Context, filePaths []string, req *DedupRequest) (*DedupResponse, error)

	// CompareDocuments estimates the similarity of two raw documents
	CompareDocuments(ctx context.Context, doc1, doc2 string, req *DedupRequest) (float64, error)
}

// DedupOutputFormatter defines the interface for formatting scan results
type DedupOutputFormatter interface {
	// FormatDedupResponse formats a scan response according to the specified format
	FormatDedupResponse(response *DedupResponse, format OutputFormat, writer io.Writer) error

	// FormatDedupStatistics formats scan statistics
	FormatDedupStatistics(stats *DedupStatistics, format OutputFormat, writer io.Writer) error
}

// DedupConfigurationLoader defines the interface for loading scan configuration
type DedupConfigurationLoader interface {
	// LoadDedupConfig loads scan configuration from file
	LoadDedupConfig(configPath string) (*DedupRequest, error)

	// SaveDedupConfig saves scan configuration to file
	SaveDedupConfig(config *DedupRequest, configPath string) error

	// GetDefaultDedupConfig returns default scan configuration
	GetDefaultDedupConfig() *DedupRequest
}

// FileReader defines the interface for collecting and reading input files
type FileReader interface {
	// CollectTextFiles finds input files under paths honoring the patterns
	CollectTextFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// FileExists checks if a file exists
	FileExists(path string) (bool, error)
}

// Validate validates a dedup request
func (req *DedupRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}

	if req.SimilarityThreshold < 0.0 || req.SimilarityThreshold > 1.0 {
		return NewValidationError("similarity_threshold must be between 0.0 and 1.0")
	}

	if req.ShingleTokens <= 0 {
		return NewValidationError("shingle_tokens must be positive")
	}

	if req.NumHashFunctions <= 0 {
		return NewValidationError("num_hash_functions must be positive")
	}

	if req.Bands <= 0 || req.Rows <= 0 {
		return NewValidationError("bands and rows must be positive")
	}

	if req.Bands*req.Rows != req.NumHashFunctions {
		return NewValidationError(fmt.Sprintf("bands (%d) * rows (%d) must equal num_hash_functions (%d)",
			req.Bands, req.Rows, req.NumHashFunctions))
	}

	switch req.SortBy {
	case SortBySimilarity, SortByLocation, "":
	default:
		return NewValidationError(fmt.Sprintf("unsupported sort criteria: %s", req.SortBy))
	}

	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *DedupRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// NewDedupStatistics creates an empty statistics instance
func NewDedupStatistics() *DedupStatistics {
	return &DedupStatistics{}
}
