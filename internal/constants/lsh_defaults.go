package constants

// Default MinHash/LSH parameters. The banding tradeoff is the central
// tuning knob: more bands raise recall (and false positives), more rows
// raise precision (and false negatives).
//
// With 20 bands of 20 rows the probability that two documents with Jaccard
// similarity J are ever compared is 1-(1-J^rows)^bands:
//
//	J        P(compared)
//	.70      .016
//	.80      .206
//	.85      .546
//	.861     .642   <- S-curve midpoint, (1/bands)^(1/rows)
//	.87      .720
//	.90      .925
//	.95      .999
const (
	// DefaultSimilarityThreshold is the sketch-agreement fraction at or
	// above which a candidate counts as a duplicate. The banding defaults
	// below are tuned for thresholds around 0.9.
	DefaultSimilarityThreshold = 0.9

	// DefaultShingleTokens is the number of consecutive tokens joined into
	// one shingle (k-gram).
	DefaultShingleTokens = 5

	// DefaultNumHashFunctions is the sketch length. The estimator's
	// standard error shrinks as 1/sqrt(n).
	DefaultNumHashFunctions = 400

	// DefaultLSHBands and DefaultLSHRows partition the sketch for bucket
	// lookups. Bands * rows must equal the number of hash functions.
	DefaultLSHBands = 20
	DefaultLSHRows  = 20
)
