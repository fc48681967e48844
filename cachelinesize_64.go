//go:build stringhash_opt_cachelinesize_64

package stringhash

// CacheLineSize is used in structure padding to prevent false sharing.
// Fixed to 64 bytes by the stringhash_opt_cachelinesize_64 build tag.
const CacheLineSize = 64
