package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/llxisdsh/stringhash/internal/config"
)

var errVerify = errors.New("verification failed")

func newBenchCmd(g *globalFlags) *cobra.Command {
	var keys int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time sets and gets of numeric keys",
		Long: `The bench command inserts, updates, and removes the key "test",
then sets the keys "0".."N-1" (each mapped to itself) and reads them back,
printing the average time per operation. Every result is verified; any
mismatch fails the command.

Example:
  stringhash bench
  stringhash bench --keys 1000000 --buckets 262144
  stringhash bench --buckets 4 --keys 65536 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("keys") {
				g.cfg.Bench.Keys = keys
			}
			if err := g.cfg.Validate(); err != nil {
				return err
			}
			res, err := runBench(cmd.OutOrStdout(), g, g.cfg)
			if err != nil {
				return err
			}
			if g.jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&keys, "keys", 0, "Number of numeric keys (default from config: 65536)")
	return cmd
}

// BenchResult is the --json output of bench.
type BenchResult struct {
	Buckets    int     `json:"buckets"`
	Concurrent bool    `json:"concurrent"`
	Keys       int     `json:"keys"`
	Count      int     `json:"count"`
	SetAvgNs   float64 `json:"set_avg_ns"`
	GetAvgNs   float64 `json:"get_avg_ns"`
	Enumerated int     `json:"enumerated"`
	MaxChain   int     `json:"max_chain"`
}

// runBench runs the demo sequence. Text output goes to w unless --json or
// --quiet is set.
func runBench(w io.Writer, g *globalFlags, cfg *config.Config) (*BenchResult, error) {
	out := func(format string, args ...any) {
		if !g.jsonOut {
			g.printInfo(w, format, args...)
		}
	}

	t, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	destroyed := false
	defer func() {
		if !destroyed {
			t.Destroy()
		}
	}()

	res := &BenchResult{
		Buckets:    t.Buckets(),
		Concurrent: cfg.Table.Concurrent,
		Keys:       cfg.Bench.Keys,
	}

	t.Set("test", "has a value")
	out("value for hash{test}: %s\n", quoteValue(t.Get("test")))
	t.Set("test", "has a new value")
	out("value for hash{test}: %s\n", quoteValue(t.Get("test")))
	out("Number of entries in hash: %d\n", t.Count())
	if v, ok := t.Get("test"); !ok || v != "has a new value" {
		return nil, fmt.Errorf("%w: update of %q not visible", errVerify, "test")
	}

	n := cfg.Bench.Keys
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	L.Debug("bench phase", "phase", "set", "keys", n)
	start := time.Now()
	for _, k := range keys {
		t.Set(k, k)
	}
	res.SetAvgNs = avgNs(time.Since(start), n)
	out("Tested %d sets.  Average time %d ns\n", n, int(res.SetAvgNs))

	// "test" is not numeric, so it never collides with the numeric keys.
	if got, want := t.Count(), n+1; got != want {
		return nil, fmt.Errorf("%w: count after sets is %d, want %d", errVerify, got, want)
	}

	L.Debug("bench phase", "phase", "get", "keys", n)
	start = time.Now()
	for _, k := range keys {
		v, ok := t.Get(k)
		if !ok || v != k {
			return nil, fmt.Errorf("%w: unexpected value for key %s", errVerify, k)
		}
	}
	res.GetAvgNs = avgNs(time.Since(start), n)
	out("Tested %d retrieves.  Average time %d ns\n", n, int(res.GetAvgNs))
	out("Number of entries in hash: %d\n", t.Count())

	out("value for hash{test}: %s\n", quoteValue(t.Get("test")))
	t.Remove("test")
	out("value for hash{test}: %s\n", quoteValue(t.Get("test")))
	if _, ok := t.Get("test"); ok {
		return nil, fmt.Errorf("%w: %q still present after remove", errVerify, "test")
	}

	all := t.Keys()
	for i, k := range all {
		if _, ok := t.Get(k); !ok {
			return nil, fmt.Errorf("%w: unable to retrieve value for key %s (%d/%d)", errVerify, k, i+1, len(all))
		}
	}
	if len(all) != n {
		return nil, fmt.Errorf("%w: enumerated %d keys, want %d", errVerify, len(all), n)
	}
	res.Enumerated = len(all)
	res.Count = t.Count()
	res.MaxChain = t.Stats().MaxChain
	out("Enumerated %d keys\n", len(all))

	L.Info("bench complete",
		"buckets", res.Buckets,
		"keys", n,
		"set_avg_ns", res.SetAvgNs,
		"get_avg_ns", res.GetAvgNs,
		"max_chain", res.MaxChain,
	)

	out("Destroying hash\n")
	t.Destroy()
	destroyed = true
	out("Tests Completed\n")
	return res, nil
}

func quoteValue(v string, ok bool) string {
	if !ok {
		return "<absent>"
	}
	return strconv.Quote(v)
}

func avgNs(d time.Duration, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(d.Nanoseconds()) / float64(n)
}
