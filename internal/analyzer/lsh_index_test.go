package analyzer

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, cfg SimilarityIndexConfig, seed int64) *SimilarityIndex {
	t.Helper()
	cfg.Rand = rand.New(rand.NewSource(seed))
	idx, err := NewSimilarityIndexWithConfig(cfg)
	require.NoError(t, err)
	return idx
}

func TestNewSimilarityIndex_Defaults(t *testing.T) {
	idx, err := NewSimilarityIndex(0.9)

	require.NoError(t, err)
	cfg := idx.Config()
	assert.Equal(t, 0.9, cfg.Threshold)
	assert.Equal(t, 5, cfg.TokensInWord)
	assert.Equal(t, 400, cfg.NumHashFunctions)
	assert.Equal(t, 20, cfg.Bands)
	assert.Equal(t, 20, cfg.Rows)
}

func TestNewSimilarityIndexWithConfig_IllegalConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  SimilarityIndexConfig
	}{
		{"negative threshold", SimilarityIndexConfig{Threshold: -0.1, TokensInWord: 5, NumHashFunctions: 4, Bands: 2, Rows: 2}},
		{"threshold above one", SimilarityIndexConfig{Threshold: 1.5, TokensInWord: 5, NumHashFunctions: 4, Bands: 2, Rows: 2}},
		{"bands times rows mismatch", SimilarityIndexConfig{Threshold: 0.5, TokensInWord: 5, NumHashFunctions: 100, Bands: 3, Rows: 4}},
		{"zero bands", SimilarityIndexConfig{Threshold: 0.5, TokensInWord: 5, NumHashFunctions: 4, Bands: 0, Rows: 2}},
		{"zero rows", SimilarityIndexConfig{Threshold: 0.5, TokensInWord: 5, NumHashFunctions: 4, Bands: 2, Rows: 0}},
		{"zero tokens per shingle", SimilarityIndexConfig{Threshold: 0.5, TokensInWord: 0, NumHashFunctions: 4, Bands: 2, Rows: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewSimilarityIndexWithConfig(tt.cfg)

			assert.Nil(t, idx)
			assert.ErrorIs(t, err, ErrIllegalConfiguration)
		})
	}
}

func TestLookForSimilarDocument_InsertThenDetect(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(1.0), 42)

	doc := "the quick brown fox jumps over the lazy dog"

	assert.False(t, idx.LookForSimilarDocument(doc), "first sighting inserts")
	assert.True(t, idx.LookForSimilarDocument(doc), "second sighting detects")
	assert.Equal(t, 1, idx.Size(), "a detected duplicate is not inserted")
}

func TestLookForSimilarDocument_ExampleScenario(t *testing.T) {
	idx := newTestIndex(t, SimilarityIndexConfig{
		Threshold:        0.5,
		TokensInWord:     2,
		NumHashFunctions: 4,
		Bands:            2,
		Rows:             2,
	}, 42)

	assert.False(t, idx.LookForSimilarDocument("the quick brown fox"))
	assert.True(t, idx.LookForSimilarDocument("the quick brown fox"))
	assert.False(t, idx.LookForSimilarDocument("completely unrelated text here"))
}

func TestLookForSimilarDocument_WhitespaceTokenization(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(1.0), 42)

	// Runs of spaces, tabs and newlines all collapse to the same tokens.
	assert.False(t, idx.LookForSimilarDocument("alpha beta gamma delta"))
	assert.True(t, idx.LookForSimilarDocument("alpha\tbeta\n gamma \r\n delta"))
}

func TestLookForSimilarDocument_EmptyDocument(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(1.0), 42)

	// Empty input degrades to an all-sentinel sketch, not an error: the
	// first empty document inserts, the second matches it exactly.
	assert.False(t, idx.LookForSimilarDocument(""))
	assert.True(t, idx.LookForSimilarDocument("   \t\n"))
}

func TestFindSimilarDocument_ReportsMatch(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(0.9), 42)

	_, found := idx.FindSimilarDocument("docs/a.txt", "the quick brown fox jumps over the lazy dog")
	require.False(t, found)

	match, found := idx.FindSimilarDocument("docs/b.txt", "the quick brown fox jumps over the lazy dog")
	require.True(t, found)
	assert.Equal(t, "docs/a.txt", match.DocumentID)
	assert.Equal(t, 1.0, match.Similarity)
}

func TestClearDocuments(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(1.0), 42)
	doc := "some document text that was indexed"

	require.False(t, idx.LookForSimilarDocument(doc))
	require.True(t, idx.LookForSimilarDocument(doc))

	idx.ClearDocuments()

	assert.Equal(t, 0, idx.Size())
	assert.False(t, idx.LookForSimilarDocument(doc), "cleared index starts over")
	assert.True(t, idx.LookForSimilarDocument(doc))
}

func TestCompareDocuments(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(0.9), 42)

	assert.Equal(t, 1.0, idx.CompareDocuments("same text here", "same text here"))

	similarity := idx.CompareDocuments(
		"the quick brown fox jumps over the lazy dog",
		"entirely different words about other topics altogether",
	)
	assert.Less(t, similarity, 0.5)
	assert.Equal(t, 0, idx.Size(), "comparison must not touch bucket state")
}

func TestBandKey_AgreementSemantics(t *testing.T) {
	idx := newTestIndex(t, SimilarityIndexConfig{
		Threshold:        0.5,
		TokensInWord:     2,
		NumHashFunctions: 4,
		Bands:            2,
		Rows:             2,
	}, 42)

	a := Sketch{1, 2, 3, 4}
	b := Sketch{1, 2, 9, 9}

	// Agreement on every row of a band yields the same key for that band.
	assert.Equal(t, idx.bandKey(a, 0), idx.bandKey(b, 0))
	// A single differing row yields a different key.
	assert.NotEqual(t, idx.bandKey(a, 1), idx.bandKey(b, 1))

	// Identical row values in different bands must not collide: the band
	// ordinal is folded into the key.
	c := Sketch{7, 8, 7, 8}
	assert.NotEqual(t, idx.bandKey(c, 0), idx.bandKey(c, 1))
}

func TestLookForSimilarDocument_SharedBandForcesComparison(t *testing.T) {
	// Threshold 0 makes any direct comparison a match, so a lookup returns
	// true exactly when the candidate shares at least one full band. Two
	// unrelated documents share no band, so the second lookup inserts; a
	// rerun of the first document trivially shares all bands and matches.
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(0.0), 42)

	require.False(t, idx.LookForSimilarDocument("first document about rivers and mountains"))
	assert.False(t, idx.LookForSimilarDocument("second text concerning compilers and parsers"))
	assert.True(t, idx.LookForSimilarDocument("first document about rivers and mountains"))
}

func TestStats(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(1.0), 42)

	assert.Equal(t, IndexStats{}, idx.Stats())

	require.False(t, idx.LookForSimilarDocument("one document worth of text"))
	require.False(t, idx.LookForSimilarDocument("another rather different document"))

	stats := idx.Stats()
	assert.Equal(t, 2, stats.NumDocuments)
	assert.Greater(t, stats.NumBuckets, 0)
	assert.GreaterOrEqual(t, stats.MaxBucketSize, stats.MinBucketSize)
	assert.Greater(t, stats.AvgBucketSize, 0.0)
}

func TestLookForSimilarDocument_ConcurrentCallers(t *testing.T) {
	idx := newTestIndex(t, DefaultSimilarityIndexConfig(1.0), 42)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				idx.LookForSimilarDocument(fmt.Sprintf("worker %d document %d body text", n, j%10))
			}
		}(i)
	}
	wg.Wait()

	// Every distinct document is stored at most once.
	assert.LessOrEqual(t, idx.Size(), 80)
	assert.Greater(t, idx.Size(), 0)
}

func BenchmarkLookForSimilarDocument(b *testing.B) {
	idx, err := NewSimilarityIndexWithConfig(SimilarityIndexConfig{
		Threshold:        0.9,
		TokensInWord:     5,
		NumHashFunctions: 400,
		Bands:            20,
		Rows:             20,
		Rand:             rand.New(rand.NewSource(1)),
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.LookForSimilarDocument(fmt.Sprintf("document number %d with some shared boilerplate text", i))
	}
}
