package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dupescan/dupescan/domain"
)

// DedupFormatter implements the domain.DedupOutputFormatter interface
type DedupFormatter struct{}

// NewDedupFormatter creates a new scan result formatter
func NewDedupFormatter() *DedupFormatter {
	return &DedupFormatter{}
}

// FormatDedupResponse formats a scan response according to the specified format
func (f *DedupFormatter) FormatDedupResponse(response *domain.DedupResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatDedupStatistics formats scan statistics
func (f *DedupFormatter) FormatDedupStatistics(stats *domain.DedupStatistics, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		f.writeStatisticsText(stats, writer)
		return nil
	case domain.OutputFormatJSON:
		return WriteJSON(writer, stats)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, stats)
	case domain.OutputFormatCSV:
		return domain.NewUnsupportedFormatError("csv statistics")
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatText renders a human-readable report.
func (f *DedupFormatter) formatText(response *domain.DedupResponse, writer io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Near-Duplicate Scan Results\n")
	sb.WriteString("===========================\n\n")

	if len(response.Duplicates) == 0 {
		sb.WriteString("No near-duplicate documents found.\n")
	} else {
		sb.WriteString(fmt.Sprintf("Found %d near-duplicate document(s):\n\n", len(response.Duplicates)))
		for _, match := range response.Duplicates {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", match.ID, match.Document))
			sb.WriteString(fmt.Sprintf("     duplicates %s (similarity: %.3f)\n", match.MatchedWith, match.Similarity))
		}
		sb.WriteString("\n")
	}

	if _, err := fmt.Fprint(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write text output", err)
	}

	if response.Statistics != nil {
		f.writeStatisticsText(response.Statistics, writer)
	}

	return nil
}

// writeStatisticsText appends the summary block of a text report.
func (f *DedupFormatter) writeStatisticsText(stats *domain.DedupStatistics, writer io.Writer) {
	var sb strings.Builder

	sb.WriteString("Summary\n")
	sb.WriteString("-------\n")
	sb.WriteString(fmt.Sprintf("Files scanned:      %d\n", stats.FilesScanned))
	if stats.FilesSkipped > 0 {
		sb.WriteString(fmt.Sprintf("Files skipped:      %d\n", stats.FilesSkipped))
	}
	sb.WriteString(fmt.Sprintf("Duplicates found:   %d\n", stats.DuplicatesFound))
	sb.WriteString(fmt.Sprintf("Unique documents:   %d\n", stats.UniqueDocuments))
	if stats.DuplicatesFound > 0 {
		sb.WriteString(fmt.Sprintf("Average similarity: %.3f\n", stats.AverageSimilarity))
	}
	if stats.Index != nil {
		sb.WriteString(fmt.Sprintf("Index buckets:      %d (max %d, avg %.1f entries)\n",
			stats.Index.Buckets, stats.Index.MaxBucketSize, stats.Index.AvgBucketSize))
	}

	fmt.Fprint(writer, sb.String())
}

// formatCSV writes one record per duplicate match.
func (f *DedupFormatter) formatCSV(response *domain.DedupResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write([]string{"id", "document", "matched_with", "similarity"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}

	for _, match := range response.Duplicates {
		record := []string{
			strconv.Itoa(match.ID),
			match.Document,
			match.MatchedWith,
			strconv.FormatFloat(match.Similarity, 'f', 6, 64),
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("failed to write CSV record", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}
