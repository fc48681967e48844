package stringhash

import (
	"fmt"
	"math"
	"strings"
)

// Stats returns statistics for the Table. It walks every chain, so it is
// an O(N) operation meant for diagnostics and debugging.
func (t *Table) Stats() *Stats {
	t.checkLive()
	stats := newStats(len(t.buckets), t.count)
	for i := range t.buckets {
		stats.addBucket(&t.buckets[i])
	}
	return stats.finish()
}

// Stats is Table statistics.
//
// Warning: statistics are intended for diagnostic purposes. Fields may be
// added or changed between minor releases.
type Stats struct {
	// Buckets is the fixed number of chains.
	Buckets int
	// EmptyBuckets is the number of chains holding no entries.
	EmptyBuckets int
	// Size is the exact number of entries found by walking every chain.
	Size int
	// Counter is the maintained entry count, as returned by Count.
	// Without concurrent modification it always equals Size.
	Counter int
	// MinChain is the length of the shortest chain.
	MinChain int
	// MaxChain is the length of the longest chain.
	MaxChain int
	// KeyBytes is the total length of all stored keys.
	KeyBytes int
	// ValueBytes is the total length of all stored values.
	ValueBytes int
	// ValueCapacity is the total capacity of all value buffers. It exceeds
	// ValueBytes when updates reused a buffer for a shorter value.
	ValueCapacity int
}

func newStats(buckets, counter int) *Stats {
	return &Stats{
		Buckets:  buckets,
		Counter:  counter,
		MinChain: math.MaxInt,
	}
}

func (s *Stats) addBucket(b *bucket) {
	n := 0
	for e := b.head; e != nil; e = e.next {
		n++
		s.KeyBytes += len(e.key)
		s.ValueBytes += len(e.value)
		s.ValueCapacity += cap(e.value)
	}
	s.Size += n
	if n == 0 {
		s.EmptyBuckets++
	}
	s.MinChain = min(s.MinChain, n)
	s.MaxChain = max(s.MaxChain, n)
}

func (s *Stats) finish() *Stats {
	if s.Buckets == 0 {
		s.MinChain = 0
	}
	return s
}

// LoadFactor is the mean chain length.
func (s *Stats) LoadFactor() float64 {
	if s.Buckets == 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Buckets)
}

// ToString returns string representation of table stats.
func (s *Stats) ToString() string {
	var sb strings.Builder
	sb.WriteString("Stats{\n")
	sb.WriteString(fmt.Sprintf("Buckets:       %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("EmptyBuckets:  %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("Size:          %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:       %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("MinChain:      %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:      %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("LoadFactor:    %.2f\n", s.LoadFactor()))
	sb.WriteString(fmt.Sprintf("KeyBytes:      %d\n", s.KeyBytes))
	sb.WriteString(fmt.Sprintf("ValueBytes:    %d\n", s.ValueBytes))
	sb.WriteString(fmt.Sprintf("ValueCapacity: %d\n", s.ValueCapacity))
	sb.WriteString("}\n")
	return sb.String()
}
