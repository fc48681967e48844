package stringhash

import "encoding/binary"

// DefaultSeed is the seed folded into every key hash unless a table is
// created with WithSeed or WithRandomSeed.
const DefaultSeed uint64 = 0xcafebabedeadbeef

const (
	murmurMul   uint64 = 0xc6a4a7935bd1e995
	murmurShift        = 47
)

// HashFunc maps a key and seed to a 64-bit hash. Implementations must be
// deterministic: the same key and seed always give the same result.
type HashFunc func(key string, seed uint64) uint64

// Hash64 computes the 64-bit MurmurHash64A of data.
//
// Words are always read little-endian, so a key lands in the same bucket
// on every architecture.
func Hash64(data []byte, seed uint64) uint64 {
	h := seed ^ (uint64(len(data)) * murmurMul)

	n := len(data) &^ 7
	for i := 0; i < n; i += 8 {
		h = murmurMix(h, binary.LittleEndian.Uint64(data[i:]))
	}

	if tail := data[n:]; len(tail) > 0 {
		var k uint64
		for i := len(tail) - 1; i >= 0; i-- {
			k = k<<8 | uint64(tail[i])
		}
		h ^= k
		h *= murmurMul
	}

	return murmurFinal(h)
}

// HashString is Hash64 for strings. It does not allocate.
func HashString(s string, seed uint64) uint64 {
	h := seed ^ (uint64(len(s)) * murmurMul)

	n := len(s) &^ 7
	for i := 0; i < n; i += 8 {
		w := uint64(s[i]) | uint64(s[i+1])<<8 | uint64(s[i+2])<<16 | uint64(s[i+3])<<24 |
			uint64(s[i+4])<<32 | uint64(s[i+5])<<40 | uint64(s[i+6])<<48 | uint64(s[i+7])<<56
		h = murmurMix(h, w)
	}

	if n < len(s) {
		var k uint64
		for i := len(s) - 1; i >= n; i-- {
			k = k<<8 | uint64(s[i])
		}
		h ^= k
		h *= murmurMul
	}

	return murmurFinal(h)
}

//go:nosplit
func murmurMix(h, k uint64) uint64 {
	k *= murmurMul
	k ^= k >> murmurShift
	k *= murmurMul
	h ^= k
	return h * murmurMul
}

//go:nosplit
func murmurFinal(h uint64) uint64 {
	h ^= h >> murmurShift
	h *= murmurMul
	h ^= h >> murmurShift
	return h
}
