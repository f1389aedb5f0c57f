package analyzer

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"
)

// Sketch is a fixed-length MinHash fingerprint: one minimum hash value per
// function in the family. All sketches produced by one Sketcher have the
// same length, and a sketch is treated as immutable once it enters an index.
type Sketch []uint32

// Sketcher turns a token sequence into a MinHash sketch by k-shingling the
// tokens and keeping the per-function minimum over all shingle fingerprints.
type Sketcher struct {
	tokensInWord     int
	numHashFunctions int
	family           *HashFamily
}

// NewSketcher creates a sketcher with time-seeded hash coefficients.
func NewSketcher(tokensInWord, numHashFunctions int) (*Sketcher, error) {
	return NewSketcherWithSource(tokensInWord, numHashFunctions, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSketcherWithSource creates a sketcher drawing hash coefficients from
// rng so tests can reproduce sketches exactly.
func NewSketcherWithSource(tokensInWord, numHashFunctions int, rng *rand.Rand) (*Sketcher, error) {
	if tokensInWord <= 0 {
		return nil, fmt.Errorf("%w: tokens per shingle must be positive, got %d", ErrIllegalConfiguration, tokensInWord)
	}

	family, err := NewHashFamilyWithSource(numHashFunctions, rng)
	if err != nil {
		return nil, err
	}

	return &Sketcher{
		tokensInWord:     tokensInWord,
		numHashFunctions: numHashFunctions,
		family:           family,
	}, nil
}

// ComputeSketch builds the MinHash sketch for an ordered token sequence.
// A shingle starts at every token position and runs for up to tokensInWord
// tokens; shingles near the end of the sequence may be shorter, which is
// accepted rather than dropped. Empty input yields an all-sentinel sketch.
func (s *Sketcher) ComputeSketch(tokens []string) Sketch {
	sketch := make(Sketch, s.numHashFunctions)
	for i := range sketch {
		sketch[i] = MaxHashValue
	}

	if len(tokens) == 0 {
		return sketch
	}

	var shingle strings.Builder
	for start := range tokens {
		shingle.Reset()
		end := start + s.tokensInWord
		if end > len(tokens) {
			end = len(tokens)
		}
		for _, token := range tokens[start:end] {
			shingle.WriteString(token)
		}

		fingerprint := shingleFingerprint(shingle.String())
		for i, fn := range s.family.functions {
			if value := fn.CalculateHash(fingerprint); value < sketch[i] {
				sketch[i] = value
			}
		}
	}

	return sketch
}

// CompareSketches estimates the Jaccard similarity of the underlying
// shingle sets as the fraction of positions where the two sketches agree.
// Mismatched lengths are a programming error, so this fails fast.
func (s *Sketcher) CompareSketches(a, b Sketch) float64 {
	if len(a) != s.numHashFunctions || len(b) != s.numHashFunctions {
		panic(fmt.Sprintf("analyzer: sketch length mismatch: got %d and %d, want %d", len(a), len(b), s.numHashFunctions))
	}

	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}

	return float64(matches) / float64(s.numHashFunctions)
}

// NumHashFunctions returns the sketch length this sketcher produces.
func (s *Sketcher) NumHashFunctions() int {
	return s.numHashFunctions
}

// TokensInWord returns the shingle size in tokens.
func (s *Sketcher) TokensInWord() int {
	return s.tokensInWord
}

// shingleFingerprint reduces a concatenated shingle to a stable 32-bit
// integer. Only within-process determinism matters: sketches are never
// compared across index instances.
func shingleFingerprint(shingle string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(shingle))
	return h.Sum32()
}
