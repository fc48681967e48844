package stringhash

import "math/rand/v2"

// Config defines configurable Table and ConcurrentTable options.
type Config struct {
	seed    uint64
	keyHash HashFunc
	stripes int
}

func newConfig(options []func(*Config)) Config {
	cfg := Config{
		seed:    DefaultSeed,
		keyHash: HashString,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// WithSeed configures the seed passed to the key hash function.
func WithSeed(seed uint64) func(*Config) {
	return func(c *Config) {
		c.seed = seed
	}
}

// WithRandomSeed picks a random seed for the table. Bucket placement then
// differs between processes, which makes collision flooding with crafted
// keys impractical.
func WithRandomSeed() func(*Config) {
	return func(c *Config) {
		c.seed = rand.Uint64()
	}
}

// WithHasher replaces MurmurHash64A with a custom hash function.
// A nil fn is ignored.
//
// Usage:
//
//	t, err := stringhash.New(1024, stringhash.WithHasher(func(key string, seed uint64) uint64 {
//		return xxhash.Sum64String(key) ^ seed
//	}))
func WithHasher(fn HashFunc) func(*Config) {
	return func(c *Config) {
		if fn != nil {
			c.keyHash = fn
		}
	}
}

// WithStripes sets the number of lock stripes of a ConcurrentTable.
// It is capped at the bucket count; zero or negative values select the
// default. Table ignores it.
func WithStripes(n int) func(*Config) {
	return func(c *Config) {
		c.stripes = n
	}
}
