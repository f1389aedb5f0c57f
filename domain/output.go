package domain

import (
	"io"
)

// OutputFormat identifies a report serialization format.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria defines how scan results are ordered.
type SortCriteria string

const (
	SortBySimilarity SortCriteria = "similarity"
	SortByLocation   SortCriteria = "location"
)

// ProgressManager manages progress tracking for long scans.
//
// Implementations live in the service layer.
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Update updates the progress
	Update(processed, total int)

	// Complete marks the progress as completed
	Complete(success bool)

	// SetWriter sets the output writer for progress bars
	SetWriter(writer io.Writer)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}
