package analyzer

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/dupescan/dupescan/internal/constants"
)

// SimilarityIndexConfig holds construction parameters for a SimilarityIndex.
type SimilarityIndexConfig struct {
	// Threshold is the sketch-agreement fraction in [0, 1] at or above
	// which a candidate counts as a duplicate.
	Threshold float64

	// TokensInWord is the shingle size in tokens.
	TokensInWord int

	// NumHashFunctions is the sketch length. Must equal Bands * Rows.
	NumHashFunctions int

	// Bands and Rows partition each sketch for bucket lookups.
	Bands int
	Rows  int

	// Rand supplies the hash coefficients. Nil means time-seeded.
	Rand *rand.Rand
}

// DefaultSimilarityIndexConfig returns the banding configuration the index
// uses when only a threshold is given.
func DefaultSimilarityIndexConfig(threshold float64) SimilarityIndexConfig {
	return SimilarityIndexConfig{
		Threshold:        threshold,
		TokensInWord:     constants.DefaultShingleTokens,
		NumHashFunctions: constants.DefaultNumHashFunctions,
		Bands:            constants.DefaultLSHBands,
		Rows:             constants.DefaultLSHRows,
	}
}

// Match reports which stored document a lookup matched.
type Match struct {
	DocumentID string
	Similarity float64
}

// storedDocument is a bucket entry. Entries are pointer-shared across all
// band buckets of one document, so pointer identity doubles as the
// "already compared" key during a lookup.
type storedDocument struct {
	id     string
	sketch Sketch
}

// SimilarityIndex buckets MinHash sketches with the LSH banding technique
// so that a lookup only compares against candidates sharing at least one
// full band. Bucket state grows monotonically until ClearDocuments.
type SimilarityIndex struct {
	threshold float64
	bands     int
	rows      int
	sketcher  *Sketcher

	// mu guards buckets and size. A lookup is a read-then-conditionally-
	// insert sequence, so the whole call holds the lock; without it two
	// concurrent lookups of near-identical documents could both insert.
	mu      sync.Mutex
	buckets map[string][]*storedDocument
	size    int
}

// NewSimilarityIndex creates an index with the default banding parameters
// (5-token shingles, 400 hash functions in 20 bands of 20 rows).
func NewSimilarityIndex(threshold float64) (*SimilarityIndex, error) {
	return NewSimilarityIndexWithConfig(DefaultSimilarityIndexConfig(threshold))
}

// NewSimilarityIndexWithConfig creates an index from an explicit
// configuration. All parameter errors surface here; once constructed the
// index has no internal error paths.
func NewSimilarityIndexWithConfig(cfg SimilarityIndexConfig) (*SimilarityIndex, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold must be in [0, 1], got %g", ErrIllegalConfiguration, cfg.Threshold)
	}
	if cfg.Bands <= 0 || cfg.Rows <= 0 || cfg.Bands*cfg.Rows != cfg.NumHashFunctions {
		return nil, fmt.Errorf("%w: bands (%d) * rows (%d) must equal number of hash functions (%d)",
			ErrIllegalConfiguration, cfg.Bands, cfg.Rows, cfg.NumHashFunctions)
	}

	rng := cfg.Rand
	var sketcher *Sketcher
	var err error
	if rng != nil {
		sketcher, err = NewSketcherWithSource(cfg.TokensInWord, cfg.NumHashFunctions, rng)
	} else {
		sketcher, err = NewSketcher(cfg.TokensInWord, cfg.NumHashFunctions)
	}
	if err != nil {
		return nil, err
	}

	return &SimilarityIndex{
		threshold: cfg.Threshold,
		bands:     cfg.Bands,
		rows:      cfg.Rows,
		sketcher:  sketcher,
		buckets:   make(map[string][]*storedDocument),
	}, nil
}

// LookForSimilarDocument reports whether a document similar to doc was seen
// before. When no stored document meets the threshold, doc is inserted and
// the call returns false; a later identical call then returns true.
func (x *SimilarityIndex) LookForSimilarDocument(doc string) bool {
	_, found := x.FindSimilarDocument("", doc)
	return found
}

// FindSimilarDocument is LookForSimilarDocument with attribution: id is
// recorded when doc is inserted, and a hit reports the stored document's id
// and the estimated similarity. Tokenization is whitespace splitting; a
// document with no tokens degrades to an all-sentinel sketch rather than an
// error.
func (x *SimilarityIndex) FindSimilarDocument(id, doc string) (Match, bool) {
	sketch := x.sketcher.ComputeSketch(strings.Fields(doc))

	x.mu.Lock()
	defer x.mu.Unlock()

	keys := make([]string, x.bands)
	compared := make(map[*storedDocument]struct{})

	for band := 0; band < x.bands; band++ {
		keys[band] = x.bandKey(sketch, band)

		for _, stored := range x.buckets[keys[band]] {
			// A candidate sharing several bands shows up once per shared
			// bucket; compare it only on first sight.
			if _, seen := compared[stored]; seen {
				continue
			}
			if similarity := x.sketcher.CompareSketches(sketch, stored.sketch); similarity >= x.threshold {
				return Match{DocumentID: stored.id, Similarity: similarity}, true
			}
			compared[stored] = struct{}{}
		}
	}

	entry := &storedDocument{id: id, sketch: sketch}
	for _, key := range keys {
		x.buckets[key] = append(x.buckets[key], entry)
	}
	x.size++

	return Match{}, false
}

// CompareDocuments estimates the similarity of two documents without
// touching the bucket state.
func (x *SimilarityIndex) CompareDocuments(a, b string) float64 {
	return x.sketcher.CompareSketches(
		x.sketcher.ComputeSketch(strings.Fields(a)),
		x.sketcher.ComputeSketch(strings.Fields(b)),
	)
}

// ClearDocuments empties all bucket state. Subsequent lookups start from an
// empty index. No selective eviction is supported.
func (x *SimilarityIndex) ClearDocuments() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.buckets = make(map[string][]*storedDocument)
	x.size = 0
}

// Size returns the number of documents currently stored.
func (x *SimilarityIndex) Size() int {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.size
}

// Config returns the index parameters.
func (x *SimilarityIndex) Config() SimilarityIndexConfig {
	return SimilarityIndexConfig{
		Threshold:        x.threshold,
		TokensInWord:     x.sketcher.TokensInWord(),
		NumHashFunctions: x.sketcher.NumHashFunctions(),
		Bands:            x.bands,
		Rows:             x.rows,
	}
}

// IndexStats describes bucket occupancy.
type IndexStats struct {
	NumDocuments  int     `json:"num_documents" yaml:"num_documents"`
	NumBuckets    int     `json:"num_buckets" yaml:"num_buckets"`
	MinBucketSize int     `json:"min_bucket_size" yaml:"min_bucket_size"`
	MaxBucketSize int     `json:"max_bucket_size" yaml:"max_bucket_size"`
	AvgBucketSize float64 `json:"avg_bucket_size" yaml:"avg_bucket_size"`
}

// Stats returns bucket occupancy statistics.
func (x *SimilarityIndex) Stats() IndexStats {
	x.mu.Lock()
	defer x.mu.Unlock()

	stats := IndexStats{
		NumDocuments: x.size,
		NumBuckets:   len(x.buckets),
	}

	if len(x.buckets) == 0 {
		return stats
	}

	sizes := make([]int, 0, len(x.buckets))
	total := 0
	for _, entries := range x.buckets {
		sizes = append(sizes, len(entries))
		total += len(entries)
	}
	sort.Ints(sizes)

	stats.MinBucketSize = sizes[0]
	stats.MaxBucketSize = sizes[len(sizes)-1]
	stats.AvgBucketSize = float64(total) / float64(len(x.buckets))

	return stats
}

// bandKey derives the bucket key for one band: the raw row values followed
// by the band ordinal, binary-encoded. Two sketches share a band's key iff
// their values agree on every row of that band; the trailing ordinal keeps
// identical row values in different bands apart.
func (x *SimilarityIndex) bandKey(sketch Sketch, band int) string {
	var buf [4]byte
	var key strings.Builder
	key.Grow((x.rows + 1) * 4)

	for _, value := range sketch[band*x.rows : (band+1)*x.rows] {
		binary.BigEndian.PutUint32(buf[:], value)
		key.Write(buf[:])
	}
	binary.BigEndian.PutUint32(buf[:], uint32(band))
	key.Write(buf[:])

	return key.String()
}
