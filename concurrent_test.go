package stringhash

import (
	"runtime"
	"strconv"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConcurrentTable(t *testing.T, buckets int, options ...func(*Config)) *ConcurrentTable {
	t.Helper()
	ct, err := NewConcurrent(buckets, options...)
	require.NoError(t, err)
	t.Cleanup(ct.Destroy)
	return ct
}

func TestConcurrentTable_BasicOperations(t *testing.T) {
	ct := newTestConcurrentTable(t, 16)

	ct.Set("test", "has a value")
	v, ok := ct.Get("test")
	require.True(t, ok)
	require.Equal(t, "has a value", v)

	ct.Set("test", "has a new value")
	v, ok = ct.Get("test")
	require.True(t, ok)
	require.Equal(t, "has a new value", v)
	require.Equal(t, 1, ct.Count())
	require.True(t, ct.HasKey("test"))

	buf, ok := ct.AppendValue([]byte("v="), "test")
	require.True(t, ok)
	require.Equal(t, "v=has a new value", string(buf))

	ct.Remove("test")
	ct.Remove("test")
	_, ok = ct.Get("test")
	require.False(t, ok)
	require.Equal(t, 0, ct.Count())
	require.Empty(t, ct.Keys())
}

func TestNewConcurrent_RejectsNonPositiveBucketCount(t *testing.T) {
	_, err := NewConcurrent(0)
	require.ErrorIs(t, err, ErrInvalidBucketCount)
}

func TestConcurrentTable_Stripes(t *testing.T) {
	assert.Equal(t, 2, newTestConcurrentTable(t, 2, WithStripes(16)).Stripes())
	assert.Equal(t, 3, newTestConcurrentTable(t, 1024, WithStripes(3)).Stripes())
	def := newTestConcurrentTable(t, 1<<20)
	assert.Equal(t, runtime.GOMAXPROCS(0)*stripesPerProc, def.Stripes())
}

func TestLockStripe_Padding(t *testing.T) {
	size := unsafe.Sizeof(lockStripe{})
	assert.Zero(t, size%CacheLineSize)
}

func TestConcurrentTable_ParallelWriters(t *testing.T) {
	ct := newTestConcurrentTable(t, 64, WithStripes(8))
	const perG = 2000
	n := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(n * 2)
	for g := 0; g < n; g++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				k := strconv.Itoa(base*perG + i)
				ct.Set(k, k)
				ct.Set(k, k+"!")
			}
		}(g)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				ct.Get(strconv.Itoa(base*perG + i))
			}
		}(g)
	}
	wg.Wait()

	require.Equal(t, n*perG, ct.Count())
	require.Equal(t, n*perG, ct.Stats().Size)
	for i := 0; i < n*perG; i++ {
		k := strconv.Itoa(i)
		v, ok := ct.Get(k)
		require.True(t, ok)
		require.Equal(t, k+"!", v)
	}
}

func TestConcurrentTable_ParallelRemoves(t *testing.T) {
	ct := newTestConcurrentTable(t, 32)
	const total = 4000
	for i := 0; i < total; i++ {
		ct.Set(strconv.Itoa(i), "v")
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Every goroutine races to remove the same even keys.
			for i := 0; i < total; i += 2 {
				ct.Remove(strconv.Itoa(i))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, total/2, ct.Count())
	keys := ct.Keys()
	require.Len(t, keys, total/2)
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		require.NoError(t, err)
		require.Equal(t, 1, n%2)
	}
}

func TestConcurrentTable_RangeMayReenter(t *testing.T) {
	ct := newTestConcurrentTable(t, 4, WithStripes(1))
	for i := 0; i < 10; i++ {
		ct.Set(strconv.Itoa(i), strconv.Itoa(i))
	}
	n := 0
	ct.Range(func(k, v string) bool {
		got, ok := ct.Get(k)
		require.True(t, ok)
		require.Equal(t, v, got)
		n++
		return true
	})
	assert.Equal(t, 10, n)

	n = 0
	ct.Range(func(string, string) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}

func TestConcurrentTable_ClearAndDestroy(t *testing.T) {
	ct, err := NewConcurrent(8)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		ct.Set(strconv.Itoa(i), "v")
	}
	ct.Clear()
	assert.Equal(t, 0, ct.Count())
	assert.Equal(t, map[string]string{}, ct.ToMap())
	assert.Equal(t, "ConcurrentTable[]", ct.String())

	ct.Set("a", "b")
	assert.Equal(t, "ConcurrentTable[a:b]", ct.String())
	assert.Equal(t, 8, ct.Buckets())

	ct.Destroy()
	ct.Destroy()
	require.PanicsWithValue(t, ErrDestroyed, func() { ct.Get("a") })
	require.PanicsWithValue(t, ErrDestroyed, func() { ct.Count() })
}

func TestConcurrentTable_MatchesTablePlacement(t *testing.T) {
	tab := newTestTable(t, 16)
	ct := newTestConcurrentTable(t, 16)
	for i := 0; i < 200; i++ {
		k := "k" + strconv.Itoa(i)
		tab.Set(k, k)
		ct.Set(k, k)
	}
	// Same hash, same buckets, same chain order.
	assert.Equal(t, tab.Keys(), ct.Keys())
}
