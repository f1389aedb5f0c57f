package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dupescan/dupescan/domain"
)

// DedupUseCase orchestrates near-duplicate scan operations
type DedupUseCase struct {
	service      domain.DedupService
	fileReader   domain.FileReader
	formatter    domain.DedupOutputFormatter
	configLoader domain.DedupConfigurationLoader
}

// NewDedupUseCase creates a new scan use case with the given dependencies
func NewDedupUseCase(
	service domain.DedupService,
	fileReader domain.FileReader,
	formatter domain.DedupOutputFormatter,
	configLoader domain.DedupConfigurationLoader,
) *DedupUseCase {
	return &DedupUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
	}
}

// Execute runs a near-duplicate scan over the request's paths and writes the
// formatted report to the request's output writer.
func (uc *DedupUseCase) Execute(ctx context.Context, req domain.DedupRequest) error {
	startTime := time.Now()

	if req.ConfigPath != "" {
		configReq, err := uc.configLoader.LoadDedupConfig(req.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		// Request values take precedence over file values.
		req = uc.mergeConfiguration(*configReq, req)
	}

	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	response, err := uc.service.ScanPaths(ctx, &req)
	if err != nil {
		return fmt.Errorf("duplicate scan failed: %w", err)
	}

	response.Duration = time.Since(startTime).Milliseconds()
	if req.ShowDetails {
		response.Request = &req
	}

	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}

	return uc.formatter.FormatDedupResponse(response, req.OutputFormat, req.OutputWriter)
}

// ExecuteWithFiles runs a near-duplicate scan over explicitly listed files.
func (uc *DedupUseCase) ExecuteWithFiles(ctx context.Context, filePaths []string, req domain.DedupRequest) error {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if len(filePaths) == 0 {
		return uc.outputEmptyResults(req)
	}

	response, err := uc.service.ScanFiles(ctx, filePaths, &req)
	if err != nil {
		return fmt.Errorf("duplicate scan failed: %w", err)
	}

	response.Duration = time.Since(startTime).Milliseconds()

	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}

	return uc.formatter.FormatDedupResponse(response, req.OutputFormat, req.OutputWriter)
}

// CompareDocuments estimates the similarity of two raw documents.
func (uc *DedupUseCase) CompareDocuments(ctx context.Context, doc1, doc2 string, req domain.DedupRequest) (float64, error) {
	similarity, err := uc.service.CompareDocuments(ctx, doc1, doc2, &req)
	if err != nil {
		return 0.0, fmt.Errorf("failed to compare documents: %w", err)
	}
	return similarity, nil
}

// SaveConfiguration saves the current scan configuration
func (uc *DedupUseCase) SaveConfiguration(req domain.DedupRequest, configPath string) error {
	if err := uc.configLoader.SaveDedupConfig(&req, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// mergeConfiguration merges configuration from file with request parameters.
// Request parameters take precedence over configuration file values.
func (uc *DedupUseCase) mergeConfiguration(configReq, requestReq domain.DedupRequest) domain.DedupRequest {
	merged := configReq

	if len(requestReq.Paths) > 0 {
		merged.Paths = requestReq.Paths
	}
	if len(requestReq.IncludePatterns) > 0 {
		merged.IncludePatterns = requestReq.IncludePatterns
	}
	if len(requestReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = requestReq.ExcludePatterns
	}

	// Boolean flags follow the request unconditionally.
	merged.Recursive = requestReq.Recursive
	merged.ShowDetails = requestReq.ShowDetails

	// Numeric values override only when they differ from the defaults,
	// otherwise the file value survives.
	defaultReq := domain.DefaultDedupRequest()
	if requestReq.SimilarityThreshold != defaultReq.SimilarityThreshold {
		merged.SimilarityThreshold = requestReq.SimilarityThreshold
	}
	if requestReq.ShingleTokens != defaultReq.ShingleTokens {
		merged.ShingleTokens = requestReq.ShingleTokens
	}
	if requestReq.NumHashFunctions != defaultReq.NumHashFunctions {
		merged.NumHashFunctions = requestReq.NumHashFunctions
	}
	if requestReq.Bands != defaultReq.Bands {
		merged.Bands = requestReq.Bands
	}
	if requestReq.Rows != defaultReq.Rows {
		merged.Rows = requestReq.Rows
	}
	if requestReq.Seed != 0 {
		merged.Seed = requestReq.Seed
	}

	// Output settings always come from the request.
	merged.OutputFormat = requestReq.OutputFormat
	merged.OutputWriter = requestReq.OutputWriter
	if requestReq.SortBy != "" {
		merged.SortBy = requestReq.SortBy
	}

	return merged
}

// outputEmptyResults writes an empty report when there is nothing to scan.
func (uc *DedupUseCase) outputEmptyResults(req domain.DedupRequest) error {
	emptyResponse := &domain.DedupResponse{
		Duplicates: []*domain.DuplicateMatch{},
		Statistics: domain.NewDedupStatistics(),
		Success:    true,
	}

	if req.HasValidOutputWriter() {
		return uc.formatter.FormatDedupResponse(emptyResponse, req.OutputFormat, req.OutputWriter)
	}
	return nil
}

// DedupUseCaseBuilder helps build DedupUseCase with dependencies
type DedupUseCaseBuilder struct {
	service      domain.DedupService
	fileReader   domain.FileReader
	formatter    domain.DedupOutputFormatter
	configLoader domain.DedupConfigurationLoader
}

// NewDedupUseCaseBuilder creates a new builder for DedupUseCase
func NewDedupUseCaseBuilder() *DedupUseCaseBuilder {
	return &DedupUseCaseBuilder{}
}

// WithService sets the scan service
func (b *DedupUseCaseBuilder) WithService(service domain.DedupService) *DedupUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *DedupUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *DedupUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *DedupUseCaseBuilder) WithFormatter(formatter domain.DedupOutputFormatter) *DedupUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *DedupUseCaseBuilder) WithConfigLoader(configLoader domain.DedupConfigurationLoader) *DedupUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// Build creates the DedupUseCase with the configured dependencies
func (b *DedupUseCaseBuilder) Build() (*DedupUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("dedup service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.configLoader == nil {
		return nil, fmt.Errorf("configuration loader is required")
	}

	return NewDedupUseCase(b.service, b.fileReader, b.formatter, b.configLoader), nil
}
