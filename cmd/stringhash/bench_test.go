package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llxisdsh/stringhash/internal/config"
)

func TestBenchCommand(t *testing.T) {
	out, _, err := runCLI(t, "bench", "--buckets", "4", "--keys", "2000")
	require.NoError(t, err)
	assertContains(t, out, []string{
		`value for hash{test}: "has a value"`,
		`value for hash{test}: "has a new value"`,
		"Number of entries in hash: 1\n",
		"Tested 2000 sets.",
		"Tested 2000 retrieves.",
		"Number of entries in hash: 2001\n",
		"value for hash{test}: <absent>",
		"Enumerated 2000 keys",
		"Destroying hash",
		"Tests Completed",
	})
}

func TestBenchCommand_JSON(t *testing.T) {
	out, _, err := runCLI(t, "bench", "--buckets", "16", "--keys", "500", "--concurrent", "--json")
	require.NoError(t, err)

	var res BenchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 16, res.Buckets)
	assert.True(t, res.Concurrent)
	assert.Equal(t, 500, res.Keys)
	assert.Equal(t, 500, res.Count)
	assert.Equal(t, 500, res.Enumerated)
	assert.GreaterOrEqual(t, res.MaxChain, 500/16)
}

func TestBenchCommand_Quiet(t *testing.T) {
	out, stderr, err := runCLI(t, "bench", "--keys", "10", "-q")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, stderr)
}

func TestBenchCommand_ZeroKeys(t *testing.T) {
	out, _, err := runCLI(t, "bench", "--keys", "0")
	require.NoError(t, err)
	assertContains(t, out, []string{"Tested 0 sets.", "Enumerated 0 keys"})
}

func TestBenchCommand_InvalidBuckets(t *testing.T) {
	_, _, err := runCLI(t, "bench", "--buckets", "0")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestBenchCommand_ConfigFileAndFlagPrecedence(t *testing.T) {
	path := writeFile(t, "stringhash.yaml", "table:\n  buckets: 8\nbench:\n  keys: 50\n")

	out, _, err := runCLI(t, "bench", "--config", path, "--json")
	require.NoError(t, err)
	var res BenchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 8, res.Buckets)
	assert.Equal(t, 50, res.Keys)

	out, _, err = runCLI(t, "bench", "--config", path, "--buckets", "2", "--keys", "7", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Buckets)
	assert.Equal(t, 7, res.Keys)
}

func TestBenchCommand_DebugLogging(t *testing.T) {
	_, stderr, err := runCLI(t, "bench", "--keys", "5", "-v")
	require.NoError(t, err)
	assertContains(t, stderr, []string{"table created", "bench phase", "bench complete"})
}

func TestRunBench_Direct(t *testing.T) {
	cfg := config.Default()
	cfg.Table.Buckets = 4
	cfg.Bench.Keys = 65536
	g := &globalFlags{quiet: true, cfg: cfg}

	res, err := runBench(nil, g, cfg)
	require.NoError(t, err)
	assert.Equal(t, 65536, res.Count)
	assert.Equal(t, 65536, res.Enumerated)
}
