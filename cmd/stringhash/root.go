package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llxisdsh/stringhash"
	"github.com/llxisdsh/stringhash/internal/config"
)

// L is the command logger. It discards everything until the root
// command's PersistentPreRunE has run.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	buckets    int
	seed       uint64
	concurrent bool
	stripes    int
	logLevel   string
	verbose    bool
	quiet      bool
	jsonOut    bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "stringhash",
		Short: "Exercise a fixed-bucket string hash table",
		Long: `stringhash creates a fixed-bucket, chained string hash table and
drives it: timing sets and gets, or loading key/value text files and
reporting on the resulting chains.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.resolve(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "YAML configuration file")
	flags.IntVar(&g.buckets, "buckets", 0, "Number of hash buckets (default from config: 65536)")
	flags.Uint64Var(&g.seed, "seed", stringhash.DefaultSeed, "Hash seed")
	flags.BoolVar(&g.concurrent, "concurrent", false, "Use the lock-striped concurrent table")
	flags.IntVar(&g.stripes, "stripes", 0, "Lock stripes for --concurrent (0 = per-CPU default)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&g.quiet, "quiet", "q", false, "Suppress all output except errors")
	flags.BoolVar(&g.jsonOut, "json", false, "Output in JSON format")

	cmd.AddCommand(newBenchCmd(g), newLoadCmd(g), newGetCmd(g))
	return cmd
}

// resolve builds the effective configuration: defaults, then the config
// file, then any flag the user set explicitly.
func (g *globalFlags) resolve(cmd *cobra.Command) error {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.LoadConfigFile(g.configPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("buckets") {
		cfg.Table.Buckets = g.buckets
	}
	if flags.Changed("seed") {
		cfg.Table.Seed = g.seed
	}
	if flags.Changed("concurrent") {
		cfg.Table.Concurrent = g.concurrent
	}
	if flags.Changed("stripes") {
		cfg.Table.Stripes = g.stripes
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if g.verbose {
		cfg.Log.Level = "debug"
	}
	if g.jsonOut {
		cfg.Log.Format = "json"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg

	return g.initLogger(cmd.ErrOrStderr())
}

func (g *globalFlags) initLogger(w io.Writer) error {
	if g.quiet {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}
	level, err := g.cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(g.cfg.Log.Format, "json") {
		L = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		L = slog.New(slog.NewTextHandler(w, opts))
	}
	return nil
}

// printInfo prints to the command's output unless --quiet is set.
func (g *globalFlags) printInfo(w io.Writer, format string, args ...any) {
	if !g.quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printJSON outputs data as indented JSON.
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
