package analyzer

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// UniverseSize bounds all hash outputs. 2^31-1 is a Mersenne prime, which
// keeps the bitwise mixing in CalculateHash well distributed.
const UniverseSize uint32 = 1<<31 - 1

// MaxHashValue is the sentinel every sketch position starts at before any
// shingle is folded in. An empty document sketches to all MaxHashValue.
const MaxHashValue = UniverseSize

// ErrIllegalConfiguration is returned by constructors when a parameter is
// out of range. Instances that fail construction must not be used.
var ErrIllegalConfiguration = errors.New("illegal configuration")

// HashFunction is an immutable (a, b, c) coefficient triple over the shared
// universe. It is a cheap pairwise-independent-style hash, not a
// cryptographic one: speed matters more than rigor here because hundreds of
// these run per shingle.
type HashFunction struct {
	a uint32
	b uint32
	c uint32
}

// CalculateHash maps x into [0, UniverseSize]. The arithmetic wraps at 32
// bits and the final mask keeps the result non-negative, so the same
// coefficients always produce the same output for the same input.
func (h HashFunction) CalculateHash(x uint32) uint32 {
	x &= UniverseSize
	return (h.a*(x>>4) + h.b*x + h.c) & UniverseSize
}

// HashFamily is a fixed set of independently drawn hash functions. The
// coefficients are chosen once at construction and never mutated, so a
// family can be shared read-only by every sketch computation.
type HashFamily struct {
	functions []HashFunction
}

// NewHashFamily creates a family of numHashFunctions functions with
// time-seeded random coefficients.
func NewHashFamily(numHashFunctions int) (*HashFamily, error) {
	return NewHashFamilyWithSource(numHashFunctions, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewHashFamilyWithSource creates a family drawing coefficients from rng.
// Injecting the source makes sketches reproducible in tests.
func NewHashFamilyWithSource(numHashFunctions int, rng *rand.Rand) (*HashFamily, error) {
	if numHashFunctions <= 0 {
		return nil, fmt.Errorf("%w: number of hash functions must be positive, got %d", ErrIllegalConfiguration, numHashFunctions)
	}

	functions := make([]HashFunction, numHashFunctions)
	for i := range functions {
		functions[i] = HashFunction{
			a: uint32(rng.Int31n(int32(UniverseSize))),
			b: uint32(rng.Int31n(int32(UniverseSize))),
			c: uint32(rng.Int31n(int32(UniverseSize))),
		}
	}

	return &HashFamily{functions: functions}, nil
}

// Size returns the number of functions in the family.
func (f *HashFamily) Size() int {
	return len(f.functions)
}
