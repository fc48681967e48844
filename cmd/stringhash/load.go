package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/llxisdsh/stringhash"
	"github.com/llxisdsh/stringhash/internal/loader"
)

type loadFlags struct {
	encoding  string
	separator string
	showKeys  bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Input encoding: utf-8, utf-16le, windows-1252, iso-8859-1")
	cmd.Flags().StringVar(&f.separator, "sep", "", "Key/value separator (default from config: \"=\")")
}

// apply copies explicitly set flags over the load section of the config.
func (f *loadFlags) apply(cmd *cobra.Command, g *globalFlags) error {
	if cmd.Flags().Changed("encoding") {
		g.cfg.Load.Encoding = f.encoding
	}
	if cmd.Flags().Changed("sep") {
		g.cfg.Load.Separator = f.separator
	}
	return g.cfg.Validate()
}

func newLoadCmd(g *globalFlags) *cobra.Command {
	f := &loadFlags{}
	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load a key/value file and report table statistics",
		Long: `The load command reads one key<sep>value pair per line into a table
and prints chain statistics. Empty lines and lines starting with '#' are
ignored; a repeated key keeps its last value.

Example:
  stringhash load pairs.txt
  stringhash load pairs.txt --buckets 1024 --keys
  stringhash load legacy.txt --encoding windows-1252 --sep ':' --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, g); err != nil {
				return err
			}
			t, res, err := loadFile(g, args[0])
			if err != nil {
				return err
			}
			defer t.Destroy()
			return printLoad(cmd.OutOrStdout(), g, f, t, res)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.showKeys, "keys", false, "List the loaded keys instead of statistics")
	return cmd
}

// loadFile creates a table from the resolved config and fills it from
// path.
func loadFile(g *globalFlags, path string) (store, loader.Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, loader.Result{}, fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	t, err := newStore(g.cfg)
	if err != nil {
		return nil, loader.Result{}, err
	}

	res, err := loader.Load(file, t, loader.Options{
		Encoding:  g.cfg.Load.Encoding,
		Separator: g.cfg.Load.Separator,
	})
	if err != nil {
		t.Destroy()
		return nil, res, fmt.Errorf("failed to load %s: %w", path, err)
	}
	L.Debug("file loaded", "path", path, "lines", res.Lines, "pairs", res.Pairs, "keys", t.Count())
	return t, res, nil
}

// LoadReport is the --json output of load.
type LoadReport struct {
	Lines int               `json:"lines"`
	Pairs int               `json:"pairs"`
	Count int               `json:"count"`
	Keys  []string          `json:"keys,omitempty"`
	Stats *stringhash.Stats `json:"stats,omitempty"`
}

func printLoad(w io.Writer, g *globalFlags, f *loadFlags, t store, res loader.Result) error {
	report := LoadReport{
		Lines: res.Lines,
		Pairs: res.Pairs,
		Count: t.Count(),
	}
	if f.showKeys {
		report.Keys = t.Keys()
		sort.Strings(report.Keys)
	} else {
		report.Stats = t.Stats()
	}

	if g.jsonOut {
		return printJSON(w, report)
	}

	g.printInfo(w, "Loaded %d pairs from %d lines, %d distinct keys\n", report.Pairs, report.Lines, report.Count)
	if f.showKeys {
		for _, k := range report.Keys {
			g.printInfo(w, "%s\n", k)
		}
		return nil
	}
	g.printInfo(w, "%s", report.Stats.ToString())
	return nil
}
