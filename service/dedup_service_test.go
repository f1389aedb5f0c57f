package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dupescan/dupescan/domain"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// smallRequest uses tiny sketch parameters so tests stay fast and the
// 1-token shingles make similarity behave like plain token overlap.
func smallRequest(dir string) *domain.DedupRequest {
	return &domain.DedupRequest{
		Paths:               []string{dir},
		Recursive:           true,
		IncludePatterns:     []string{"**/*.txt"},
		SimilarityThreshold: 0.9,
		ShingleTokens:       1,
		NumHashFunctions:    64,
		Bands:               16,
		Rows:                4,
		Seed:                1234,
		OutputFormat:        domain.OutputFormatText,
		SortBy:              domain.SortBySimilarity,
	}
}

func TestScanPaths_DetectsDuplicates(t *testing.T) {
	dir := t.TempDir()
	text := "the quick brown fox jumps over the lazy dog again and again"
	writeTestFile(t, dir, "a.txt", text)
	writeTestFile(t, dir, "b.txt", text)
	writeTestFile(t, dir, "c.txt", "completely unrelated content about database indexing strategies")

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	resp, err := svc.ScanPaths(context.Background(), smallRequest(dir))

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Duplicates, 1)
	assert.InDelta(t, 1.0, resp.Duplicates[0].Similarity, 0.001)
	assert.Equal(t, 3, resp.Statistics.FilesScanned)
	assert.Equal(t, 1, resp.Statistics.DuplicatesFound)
	assert.Equal(t, 2, resp.Statistics.UniqueDocuments)
	require.NotNil(t, resp.Statistics.Index)
	assert.Equal(t, 2, resp.Statistics.Index.Documents)
}

func TestScanPaths_NoDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "alpha beta gamma delta epsilon zeta eta theta")
	writeTestFile(t, dir, "b.txt", "one two three four five six seven eight nine")

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	resp, err := svc.ScanPaths(context.Background(), smallRequest(dir))

	require.NoError(t, err)
	assert.Empty(t, resp.Duplicates)
	assert.Equal(t, 2, resp.Statistics.UniqueDocuments)
	assert.Equal(t, 0.0, resp.Statistics.AverageSimilarity)
}

func TestScanPaths_ValidatesRequest(t *testing.T) {
	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	_, err := svc.ScanPaths(context.Background(), &domain.DedupRequest{})

	require.Error(t, err)
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInvalidInput, domainErr.Code)
}

func TestScanPaths_NoMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "ignored.log", "not a text file by pattern")

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	_, err := svc.ScanPaths(context.Background(), smallRequest(dir))

	assert.Error(t, err)
}

func TestScanFiles_SkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeTestFile(t, dir, "a.txt", "some perfectly readable document content here")
	missing := filepath.Join(dir, "missing.txt")

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	resp, err := svc.ScanFiles(context.Background(), []string{good, missing}, smallRequest(dir))

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Statistics.FilesScanned)
	assert.Equal(t, 1, resp.Statistics.FilesSkipped)
}

func TestScanFiles_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	_, err := svc.ScanFiles(ctx, []string{path}, smallRequest(dir))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanFiles_SortByLocation(t *testing.T) {
	dir := t.TempDir()
	text := "repeated content shared by several documents in this corpus"
	writeTestFile(t, dir, "z.txt", text)
	writeTestFile(t, dir, "a.txt", text)
	writeTestFile(t, dir, "m.txt", text)

	req := smallRequest(dir)
	req.SortBy = domain.SortByLocation

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	resp, err := svc.ScanPaths(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Duplicates, 2)
	assert.LessOrEqual(t, resp.Duplicates[0].Document, resp.Duplicates[1].Document)
	assert.Equal(t, 1, resp.Duplicates[0].ID)
	assert.Equal(t, 2, resp.Duplicates[1].ID)
}

func TestScanFiles_IllegalConfiguration(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.txt", "content")

	req := smallRequest(dir)
	req.Bands = 10 // 10 * 4 != 64

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	_, err := svc.ScanFiles(context.Background(), []string{path}, req)

	require.Error(t, err)
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeIllegalConfiguration, domainErr.Code)
}

func TestCompareDocuments(t *testing.T) {
	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)
	req := smallRequest(".")

	same, err := svc.CompareDocuments(context.Background(), "hello world example", "hello world example", req)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same, 0.001)

	different, err := svc.CompareDocuments(context.Background(), "alpha beta gamma", "uno dos tres", req)
	require.NoError(t, err)
	assert.Less(t, different, 0.5)
}

func TestScanPaths_SeededScansAreReproducible(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.txt", "a mostly shared sentence about sketching documents")
	writeTestFile(t, dir, "b.txt", "a mostly shared sentence about sketching documents today")

	req := smallRequest(dir)
	req.SimilarityThreshold = 0.5

	svc := NewDedupService(NewFileReader())
	svc.SetProgressManager(nil)

	first, err := svc.ScanPaths(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.ScanPaths(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, len(first.Duplicates), len(second.Duplicates))
	for i := range first.Duplicates {
		assert.Equal(t, first.Duplicates[i].Similarity, second.Duplicates[i].Similarity)
	}
}
