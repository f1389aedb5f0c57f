package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/dupescan/dupescan/domain"
	"github.com/dupescan/dupescan/internal/analyzer"
)

// DedupServiceImpl implements the domain.DedupService interface
type DedupServiceImpl struct {
	fileReader      domain.FileReader
	progressManager domain.ProgressManager
}

// NewDedupService creates a new near-duplicate scan service
func NewDedupService(fileReader domain.FileReader) *DedupServiceImpl {
	return &DedupServiceImpl{
		fileReader:      fileReader,
		progressManager: NewProgressManager(),
	}
}

// SetProgressManager overrides the progress manager, mainly for tests.
func (s *DedupServiceImpl) SetProgressManager(pm domain.ProgressManager) {
	s.progressManager = pm
}

// ScanPaths scans the request's paths for near-duplicate documents
func (s *DedupServiceImpl) ScanPaths(ctx context.Context, req *domain.DedupRequest) (*domain.DedupResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	files, err := s.fileReader.CollectTextFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no input files found in the specified paths", nil)
	}

	return s.ScanFiles(ctx, files, req)
}

// ScanFiles scans specific files for near-duplicate documents
func (s *DedupServiceImpl) ScanFiles(ctx context.Context, filePaths []string, req *domain.DedupRequest) (*domain.DedupResponse, error) {
	startTime := time.Now()

	index, err := s.buildIndex(req)
	if err != nil {
		return nil, err
	}

	if s.progressManager != nil {
		s.progressManager.Initialize(len(filePaths))
		s.progressManager.Start()
		defer s.progressManager.Close()
	}

	var duplicates []*domain.DuplicateMatch
	stats := domain.NewDedupStatistics()

	for i, path := range filePaths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		content, err := s.fileReader.ReadFile(path)
		if err != nil {
			// An unreadable file degrades the scan, it does not abort it.
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
			stats.FilesSkipped++
			continue
		}

		stats.FilesScanned++

		if match, found := index.FindSimilarDocument(path, string(content)); found {
			duplicates = append(duplicates, &domain.DuplicateMatch{
				ID:          len(duplicates) + 1,
				Document:    path,
				MatchedWith: match.DocumentID,
				Similarity:  match.Similarity,
			})
		}

		if s.progressManager != nil {
			s.progressManager.Update(i+1, len(filePaths))
		}
	}

	if s.progressManager != nil {
		s.progressManager.Complete(true)
	}

	s.sortDuplicates(duplicates, req.SortBy)
	// Renumber after sorting so IDs follow report order.
	for i, match := range duplicates {
		match.ID = i + 1
	}

	s.fillStatistics(stats, duplicates, index)

	return &domain.DedupResponse{
		Duplicates: duplicates,
		Statistics: stats,
		Duration:   time.Since(startTime).Milliseconds(),
		Success:    true,
	}, nil
}

// CompareDocuments estimates the similarity of two raw documents
func (s *DedupServiceImpl) CompareDocuments(ctx context.Context, doc1, doc2 string, req *domain.DedupRequest) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	index, err := s.buildIndex(req)
	if err != nil {
		return 0, err
	}

	return index.CompareDocuments(doc1, doc2), nil
}

// buildIndex constructs a SimilarityIndex from the request parameters.
func (s *DedupServiceImpl) buildIndex(req *domain.DedupRequest) (*analyzer.SimilarityIndex, error) {
	cfg := analyzer.SimilarityIndexConfig{
		Threshold:        req.SimilarityThreshold,
		TokensInWord:     req.ShingleTokens,
		NumHashFunctions: req.NumHashFunctions,
		Bands:            req.Bands,
		Rows:             req.Rows,
	}
	if req.Seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(req.Seed))
	}

	index, err := analyzer.NewSimilarityIndexWithConfig(cfg)
	if err != nil {
		if errors.Is(err, analyzer.ErrIllegalConfiguration) {
			return nil, domain.NewIllegalConfigurationError("invalid sketch configuration", err)
		}
		return nil, err
	}
	return index, nil
}

// sortDuplicates orders matches for the report.
func (s *DedupServiceImpl) sortDuplicates(duplicates []*domain.DuplicateMatch, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortByLocation:
		sort.Slice(duplicates, func(i, j int) bool {
			return duplicates[i].Document < duplicates[j].Document
		})
	default:
		// Most similar pairs first; ties broken by document path for
		// deterministic output.
		sort.Slice(duplicates, func(i, j int) bool {
			if duplicates[i].Similarity != duplicates[j].Similarity {
				return duplicates[i].Similarity > duplicates[j].Similarity
			}
			return duplicates[i].Document < duplicates[j].Document
		})
	}
}

// fillStatistics completes the statistics block after the scan loop.
func (s *DedupServiceImpl) fillStatistics(stats *domain.DedupStatistics, duplicates []*domain.DuplicateMatch, index *analyzer.SimilarityIndex) {
	stats.DuplicatesFound = len(duplicates)
	stats.UniqueDocuments = index.Size()

	if len(duplicates) > 0 {
		total := 0.0
		for _, match := range duplicates {
			total += match.Similarity
		}
		stats.AverageSimilarity = total / float64(len(duplicates))
	}

	indexStats := index.Stats()
	stats.Index = &domain.IndexStatistics{
		Documents:     indexStats.NumDocuments,
		Buckets:       indexStats.NumBuckets,
		MaxBucketSize: indexStats.MaxBucketSize,
		AvgBucketSize: indexStats.AvgBucketSize,
	}
}
