package stringhash

import (
	"strconv"
	"testing"
)

const benchBuckets = 1 << 16

var benchKeys = func() []string {
	keys := make([]string, 1<<16)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}()

func BenchmarkTableSet(b *testing.B) {
	b.ReportAllocs()
	tab, _ := New(benchBuckets)
	defer tab.Destroy()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := benchKeys[i&(len(benchKeys)-1)]
		tab.Set(k, k)
	}
}

func BenchmarkTableGet(b *testing.B) {
	b.ReportAllocs()
	tab, _ := New(benchBuckets)
	defer tab.Destroy()
	for _, k := range benchKeys {
		tab.Set(k, k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tab.Get(benchKeys[i&(len(benchKeys)-1)])
	}
}

func BenchmarkTableAppendValue(b *testing.B) {
	b.ReportAllocs()
	tab, _ := New(benchBuckets)
	defer tab.Destroy()
	for _, k := range benchKeys {
		tab.Set(k, k)
	}
	buf := make([]byte, 0, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf, _ = tab.AppendValue(buf[:0], benchKeys[i&(len(benchKeys)-1)])
	}
}

// BenchmarkTableSetSmall measures long chains: 65536 keys over 4 buckets.
func BenchmarkTableSetSmall(b *testing.B) {
	b.ReportAllocs()
	tab, _ := New(4)
	defer tab.Destroy()
	for _, k := range benchKeys {
		tab.Set(k, k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := benchKeys[i&(len(benchKeys)-1)]
		tab.Set(k, k)
	}
}

func BenchmarkConcurrentTableGet(b *testing.B) {
	b.ReportAllocs()
	ct, _ := NewConcurrent(benchBuckets)
	defer ct.Destroy()
	for _, k := range benchKeys {
		ct.Set(k, k)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = ct.Get(benchKeys[i&(len(benchKeys)-1)])
			i++
		}
	})
}

func BenchmarkConcurrentTableSet(b *testing.B) {
	b.ReportAllocs()
	ct, _ := NewConcurrent(benchBuckets)
	defer ct.Destroy()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := benchKeys[i&(len(benchKeys)-1)]
			ct.Set(k, k)
			i++
		}
	})
}
