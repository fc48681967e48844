package main

import (
	"github.com/llxisdsh/stringhash"
	"github.com/llxisdsh/stringhash/internal/config"
)

// store is the part of the table API the commands use. Both
// *stringhash.Table and *stringhash.ConcurrentTable implement it.
type store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
	Count() int
	Buckets() int
	Keys() []string
	Stats() *stringhash.Stats
	Destroy()
}

var (
	_ store = (*stringhash.Table)(nil)
	_ store = (*stringhash.ConcurrentTable)(nil)
)

func newStore(cfg *config.Config) (store, error) {
	opts := cfg.TableOptions()
	if cfg.Table.Concurrent {
		t, err := stringhash.NewConcurrent(cfg.Table.Buckets, opts...)
		if err != nil {
			return nil, err
		}
		L.Debug("table created", "kind", "concurrent", "buckets", t.Buckets(), "stripes", t.Stripes())
		return t, nil
	}
	t, err := stringhash.New(cfg.Table.Buckets, opts...)
	if err != nil {
		return nil, err
	}
	L.Debug("table created", "kind", "plain", "buckets", t.Buckets())
	return t, nil
}
