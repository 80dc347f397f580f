package booster

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstracts the uniform draw so deterministic and crypto-backed
// generators are interchangeable.
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random: default generation method
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11 // 53 bits
	return float64(u) / (1 << 53)
}

// DefaultRNG returns the crypto-backed source. It is the only
// non-deterministic entry point into the engine.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG: same seed, same full sequence of draws.
type seededRNG struct{ r *rand.Rand }

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// NewSeed draws a fresh seed from the crypto source.
func NewSeed() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.BigEndian.Uint64(buf[:])
}

// PickIndex returns a uniform index in [0, n).
func PickIndex(rng RandomSource, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Pick returns one uniformly chosen element of a non-empty slice.
func Pick[T any](rng RandomSource, items []T) T {
	return items[PickIndex(rng, len(items))]
}

// Shuffle returns a new slice in pseudo-random order, leaving the input
// intact. Fisher-Yates over a copy.
func Shuffle[T any](rng RandomSource, items []T) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := PickIndex(rng, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
