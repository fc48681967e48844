package stringhash

import (
	"fmt"
	"math"
	"strings"
)

// Table is an associative store of string keys and string values with a
// fixed number of buckets and open chaining.
//
// Key features:
//   - Bucket count is chosen once by New and never changes; there is no
//     rehashing, so chains grow as the table fills.
//   - Keys are placed with MurmurHash64A(key, seed) mod bucket count.
//   - Values are copied in on Set and copied out on Get; no caller ever
//     holds a reference into table storage.
//   - An update reuses the entry's value buffer when it is large enough.
//   - Within a bucket, the most recently set entry comes first.
//
// A Table is not safe for concurrent use. Use ConcurrentTable, or guard
// the Table with a single mutex, when several goroutines share it.
type Table struct {
	buckets []bucket
	count   int
	seed    uint64
	keyHash HashFunc
}

// New creates a Table with the given number of buckets.
//
// Parameters:
//   - buckets: number of chains, must be positive.
//   - options: WithSeed, WithRandomSeed, WithHasher.
func New(buckets int, options ...func(*Config)) (*Table, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, buckets)
	}
	cfg := newConfig(options)
	return &Table{
		buckets: make([]bucket, buckets),
		seed:    cfg.seed,
		keyHash: cfg.keyHash,
	}, nil
}

// bucketFor returns the chain key belongs to.
func (t *Table) bucketFor(key string) *bucket {
	if len(t.buckets) == 0 {
		panic(ErrDestroyed)
	}
	return &t.buckets[t.keyHash(key, t.seed)%uint64(len(t.buckets))]
}

func (t *Table) checkLive() {
	if t.buckets == nil {
		panic(ErrDestroyed)
	}
}

// Destroy releases every entry and the bucket array. Calling Destroy
// again is a no-op; any other method panics with ErrDestroyed.
func (t *Table) Destroy() {
	for i := range t.buckets {
		t.buckets[i].clear()
	}
	t.buckets = nil
	t.count = 0
}

// Get returns a copy of the value stored for key.
func (t *Table) Get(key string) (value string, ok bool) {
	e, _ := t.bucketFor(key).find(key)
	if e == nil {
		return "", false
	}
	return string(e.value), true
}

// AppendValue appends the value stored for key to dst and returns the
// extended buffer. Repeated lookups can reuse one buffer instead of
// allocating a string per call.
func (t *Table) AppendValue(dst []byte, key string) ([]byte, bool) {
	e, _ := t.bucketFor(key).find(key)
	if e == nil {
		return dst, false
	}
	return append(dst, e.value...), true
}

// HasKey reports whether key is present.
func (t *Table) HasKey(key string) bool {
	e, _ := t.bucketFor(key).find(key)
	return e != nil
}

// Set inserts key with value, or replaces the value of an existing key.
// Afterwards Get(key) returns exactly value.
func (t *Table) Set(key, value string) {
	if t.bucketFor(key).set(key, value) {
		t.count++
	}
}

// Remove deletes key. Removing an absent key is a no-op.
func (t *Table) Remove(key string) {
	t.Delete(key)
}

// Delete deletes key and reports whether it was present.
func (t *Table) Delete(key string) bool {
	if t.bucketFor(key).remove(key) {
		t.count--
		return true
	}
	return false
}

// Count returns the number of keys in the table. This is an O(1)
// operation; Stats recounts by walking every chain.
func (t *Table) Count() int {
	t.checkLive()
	return t.count
}

// Buckets returns the bucket count fixed at creation.
func (t *Table) Buckets() int {
	t.checkLive()
	return len(t.buckets)
}

// Clear removes every entry. The bucket count is kept.
func (t *Table) Clear() {
	t.checkLive()
	for i := range t.buckets {
		t.buckets[i].clear()
	}
	t.count = 0
}

// Keys returns a snapshot of all keys: bucket by bucket, and most
// recently set first within a bucket. The result is empty, not nil, for
// an empty table.
func (t *Table) Keys() []string {
	t.checkLive()
	keys := make([]string, 0, t.count)
	for i := range t.buckets {
		keys = t.buckets[i].appendKeys(keys)
	}
	return keys
}

// Range calls yield for each key/value pair until yield returns false.
//
// Notes:
//   - The table must not be modified while Range runs.
//   - Order is the same as Keys.
func (t *Table) Range(yield func(key, value string) bool) {
	t.checkLive()
	for i := range t.buckets {
		if !t.buckets[i].rangeEntries(func(k string, v []byte) bool {
			return yield(k, string(v))
		}) {
			return
		}
	}
}

// RangeKeys calls yield for each key until yield returns false.
func (t *Table) RangeKeys(yield func(key string) bool) {
	t.checkLive()
	for i := range t.buckets {
		if !t.buckets[i].rangeEntries(func(k string, _ []byte) bool {
			return yield(k)
		}) {
			return
		}
	}
}

// All is the iterator version of Range.
func (t *Table) All() func(yield func(key, value string) bool) {
	return t.Range
}

// ToMap collects all entries into a map[string]string.
func (t *Table) ToMap() map[string]string {
	return t.toMapWithLimit(-1)
}

// toMapWithLimit collects up to limit entries, limit < 0 is no limit.
func (t *Table) toMapWithLimit(limit int) map[string]string {
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
func (t *Table) String() string {
	const limit = 1024
	return strings.Replace(fmt.Sprint(t.toMapWithLimit(limit)), "map[", "Table[", 1)
}
