package stringhash

import (
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"
)

// stripesPerProc is the default number of lock stripes per P.
const stripesPerProc = 4

// lockStripe guards every bucket whose index is congruent to the stripe
// index modulo the stripe count.
type lockStripe struct {
	//lint:ignore U1000 prevents false sharing
	pad [(CacheLineSize - unsafe.Sizeof(sync.Mutex{})%CacheLineSize) % CacheLineSize]byte
	mu  sync.Mutex
}

// ConcurrentTable is a Table that is safe for concurrent use by multiple
// goroutines.
//
// Buckets have no invariants that span more than one chain, so each
// bucket is guarded by one of a fixed set of cache-line padded mutexes
// instead of one lock for the whole table. Operations on keys in
// different stripes never contend.
//
// Notes:
//   - Keys and Range lock one stripe at a time. The result is consistent
//     per bucket, not across the whole table.
//   - Destroy must not race with other calls.
type ConcurrentTable struct {
	buckets []bucket
	stripes []lockStripe
	count   atomic.Int64
	seed    uint64
	keyHash HashFunc
}

// NewConcurrent creates a ConcurrentTable with the given number of
// buckets. It accepts the same options as New, plus WithStripes.
func NewConcurrent(buckets int, options ...func(*Config)) (*ConcurrentTable, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, buckets)
	}
	cfg := newConfig(options)
	stripes := cfg.stripes
	if stripes <= 0 {
		stripes = runtime.GOMAXPROCS(0) * stripesPerProc
	}
	stripes = min(stripes, buckets)
	return &ConcurrentTable{
		buckets: make([]bucket, buckets),
		stripes: make([]lockStripe, stripes),
		seed:    cfg.seed,
		keyHash: cfg.keyHash,
	}, nil
}

func (t *ConcurrentTable) checkLive() {
	if t.buckets == nil {
		panic(ErrDestroyed)
	}
}

// lockFor locks and returns the stripe guarding key's bucket, along with
// the bucket itself.
func (t *ConcurrentTable) lockFor(key string) (*sync.Mutex, *bucket) {
	if len(t.buckets) == 0 {
		panic(ErrDestroyed)
	}
	idx := t.keyHash(key, t.seed) % uint64(len(t.buckets))
	mu := &t.stripes[idx%uint64(len(t.stripes))].mu
	mu.Lock()
	return mu, &t.buckets[idx]
}

// lockBucket locks the stripe guarding bucket i.
func (t *ConcurrentTable) lockBucket(i int) *sync.Mutex {
	mu := &t.stripes[i%len(t.stripes)].mu
	mu.Lock()
	return mu
}

// Destroy releases every entry. Calling Destroy again is a no-op; any
// other method panics with ErrDestroyed.
func (t *ConcurrentTable) Destroy() {
	for i := range t.buckets {
		mu := t.lockBucket(i)
		t.buckets[i].clear()
		mu.Unlock()
	}
	t.buckets = nil
	t.count.Store(0)
}

// Get returns a copy of the value stored for key.
func (t *ConcurrentTable) Get(key string) (value string, ok bool) {
	mu, b := t.lockFor(key)
	defer mu.Unlock()
	e, _ := b.find(key)
	if e == nil {
		return "", false
	}
	return string(e.value), true
}

// AppendValue appends the value stored for key to dst.
func (t *ConcurrentTable) AppendValue(dst []byte, key string) ([]byte, bool) {
	mu, b := t.lockFor(key)
	defer mu.Unlock()
	e, _ := b.find(key)
	if e == nil {
		return dst, false
	}
	return append(dst, e.value...), true
}

// HasKey reports whether key is present.
func (t *ConcurrentTable) HasKey(key string) bool {
	mu, b := t.lockFor(key)
	e, _ := b.find(key)
	mu.Unlock()
	return e != nil
}

// Set inserts key with value, or replaces the value of an existing key.
func (t *ConcurrentTable) Set(key, value string) {
	mu, b := t.lockFor(key)
	inserted := b.set(key, value)
	mu.Unlock()
	if inserted {
		t.count.Add(1)
	}
}

// Remove deletes key. Removing an absent key is a no-op.
func (t *ConcurrentTable) Remove(key string) {
	t.Delete(key)
}

// Delete deletes key and reports whether it was present.
func (t *ConcurrentTable) Delete(key string) bool {
	mu, b := t.lockFor(key)
	removed := b.remove(key)
	mu.Unlock()
	if removed {
		t.count.Add(-1)
	}
	return removed
}

// Count returns the number of keys in the table.
func (t *ConcurrentTable) Count() int {
	t.checkLive()
	return int(t.count.Load())
}

// Buckets returns the bucket count fixed at creation.
func (t *ConcurrentTable) Buckets() int {
	t.checkLive()
	return len(t.buckets)
}

// Stripes returns the number of lock stripes.
func (t *ConcurrentTable) Stripes() int {
	return len(t.stripes)
}

// Clear removes every entry. The bucket count is kept.
func (t *ConcurrentTable) Clear() {
	t.checkLive()
	for i := range t.buckets {
		mu := t.lockBucket(i)
		n := t.buckets[i].clear()
		mu.Unlock()
		t.count.Add(-int64(n))
	}
}

// Keys returns a snapshot of all keys, taken one bucket at a time.
func (t *ConcurrentTable) Keys() []string {
	t.checkLive()
	keys := make([]string, 0, max(t.count.Load(), 0))
	for i := range t.buckets {
		mu := t.lockBucket(i)
		keys = t.buckets[i].appendKeys(keys)
		mu.Unlock()
	}
	return keys
}

// Range calls yield for each key/value pair until yield returns false.
// The stripe of the current bucket is not held while yield runs, so
// yield may call back into the table.
func (t *ConcurrentTable) Range(yield func(key, value string) bool) {
	t.checkLive()
	type kv struct{ k, v string }
	var batch []kv
	for i := range t.buckets {
		batch = batch[:0]
		mu := t.lockBucket(i)
		t.buckets[i].rangeEntries(func(k string, v []byte) bool {
			batch = append(batch, kv{k, string(v)})
			return true
		})
		mu.Unlock()
		for _, p := range batch {
			if !yield(p.k, p.v) {
				return
			}
		}
	}
}

// All is the iterator version of Range.
func (t *ConcurrentTable) All() func(yield func(key, value string) bool) {
	return t.Range
}

// ToMap collects all entries into a map[string]string.
func (t *ConcurrentTable) ToMap() map[string]string {
	return t.toMapWithLimit(-1)
}

func (t *ConcurrentTable) toMapWithLimit(limit int) map[string]string {
	if limit == 0 {
		return map[string]string{}
	}
	if limit < 0 {
		limit = math.MaxInt
	}
	a := make(map[string]string, min(t.Count(), limit))
	t.Range(func(k, v string) bool {
		a[k] = v
		limit--
		return limit > 0
	})
	return a
}

// String implements fmt.Stringer. At most 1024 entries are printed.
func (t *ConcurrentTable) String() string {
	const limit = 1024
	return strings.Replace(fmt.Sprint(t.toMapWithLimit(limit)), "map[", "ConcurrentTable[", 1)
}

// Stats returns statistics for the table. Buckets are visited under
// their stripe lock one at a time.
func (t *ConcurrentTable) Stats() *Stats {
	t.checkLive()
	stats := newStats(len(t.buckets), int(t.count.Load()))
	for i := range t.buckets {
		mu := t.lockBucket(i)
		stats.addBucket(&t.buckets[i])
		mu.Unlock()
	}
	return stats.finish()
}
