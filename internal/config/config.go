// Package config loads the stringhash driver configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/llxisdsh/stringhash"
)

// Config is the driver configuration. Zero fields in a file keep their
// defaults.
type Config struct {
	Table TableConfig `yaml:"table"`
	Bench BenchConfig `yaml:"bench"`
	Load  LoadConfig  `yaml:"load"`
	Log   LogConfig   `yaml:"log"`
}

type TableConfig struct {
	Buckets    int    `yaml:"buckets"`
	Seed       uint64 `yaml:"seed"`
	RandomSeed bool   `yaml:"random-seed"`
	Concurrent bool   `yaml:"concurrent"`
	Stripes    int    `yaml:"stripes"`
}

type BenchConfig struct {
	Keys int `yaml:"keys"`
}

type LoadConfig struct {
	Encoding  string `yaml:"encoding"`
	Separator string `yaml:"separator"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration: 65536 buckets, 65536 bench
// keys, UTF-8 input split at "=".
func Default() *Config {
	return &Config{
		Table: TableConfig{
			Buckets: 0x10000,
			Seed:    stringhash.DefaultSeed,
		},
		Bench: BenchConfig{
			Keys: 0x10000,
		},
		Load: LoadConfig{
			Encoding:  "utf-8",
			Separator: "=",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfigFile reads path over the defaults and validates the result.
func LoadConfigFile(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.KnownFields(true)
	if err := d.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

var ErrInvalid = errors.New("invalid configuration")

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Table.Buckets <= 0 {
		return fmt.Errorf("%w: table.buckets must be positive, got %d", ErrInvalid, c.Table.Buckets)
	}
	if c.Table.Stripes < 0 {
		return fmt.Errorf("%w: table.stripes must not be negative, got %d", ErrInvalid, c.Table.Stripes)
	}
	if c.Bench.Keys < 0 {
		return fmt.Errorf("%w: bench.keys must not be negative, got %d", ErrInvalid, c.Bench.Keys)
	}
	if c.Load.Separator == "" {
		return fmt.Errorf("%w: load.separator must not be empty", ErrInvalid)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return level, nil
}

// TableOptions returns the stringhash options described by the table
// section.
func (c *Config) TableOptions() []func(*stringhash.Config) {
	opts := []func(*stringhash.Config){stringhash.WithSeed(c.Table.Seed)}
	if c.Table.RandomSeed {
		opts = append(opts, stringhash.WithRandomSeed())
	}
	if c.Table.Stripes > 0 {
		opts = append(opts, stringhash.WithStripes(c.Table.Stripes))
	}
	return opts
}
