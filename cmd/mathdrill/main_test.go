package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func runRoot(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDrillSavesAndRanks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	// With both operands fixed at zero every answer is 0.
	args := []string{"--questions", "3", "--min", "0", "--max", "0", "--results-dir", dir}

	out, err := runRoot(t, "zero\n1\n0\n0\n0\n", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "# 3:")
	assert.Contains(t, out, "Not a number zero. Try again")
	assert.Contains(t, out, "WRONG!")
	assert.Contains(t, out, "3 operations took")
	assert.Contains(t, out, "1 errors.")
	assert.Contains(t, out, "among 1 (100.0% percentile)")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

	out, err = runRoot(t, "0\n0\n0\n", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "among 2")
}

func TestDrillFailsOnClosedInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	_, err := runRoot(t, "0\n", "--questions", "2", "--min", "0", "--max", "0", "--results-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input closed")
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDrillRejectsCorruptHistory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.json"), []byte("[]"), 0o644))
	_, err := runRoot(t, "", "--results-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load history")
}

func TestDrillReportsSaveFailureAfterSummary(t *testing.T) {
	dir := t.TempDir()
	// Occupy every file name the session could be saved under with a directory.
	now := time.Now()
	for i := -2; i <= 30; i++ {
		name := store.FileName(now.Add(time.Duration(i) * time.Second))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0o755))
	}
	out, err := runRoot(t, "0\n", "--questions", "1", "--min", "0", "--max", "0", "--results-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save results")
	assert.Contains(t, out, "1 operations took")
	assert.Contains(t, out, "This is 1 place")
}

func TestStatsPlainReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	_, err := runRoot(t, "0\n0\n", "--questions", "2", "--min", "0", "--max", "0", "--results-dir", dir)
	require.NoError(t, err)

	out, err := runRoot(t, "", "stats", "--plain", "--results-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "Per-Operation")
	assert.Contains(t, out, "Total test time")
	assert.Contains(t, out, "Total errors count")
}

func TestStatsEmptyHistory(t *testing.T) {
	out, err := runRoot(t, "", "stats", "--plain", "--results-dir", filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestStatsRejectsBadSince(t *testing.T) {
	_, err := runRoot(t, "", "stats", "--plain", "--since", "yesterday", "--results-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")
}

func TestConfigFileOverridesDefaultsButNotFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "mathdrill", "config.toml")
	require.NoError(t, ensureConfigFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[drill]")

	require.NoError(t, os.WriteFile(path, []byte("[drill]\nquestions = 0\n"), 0o644))
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--results-dir", t.TempDir()})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--questions must be > 0")

	cmd = newRootCmd()
	cmd.SetIn(strings.NewReader("0\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--questions", "1", "--min", "0", "--max", "0", "--results-dir", t.TempDir()})
	require.NoError(t, cmd.Execute())
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{Questions: 10, Min: 100, Max: 999, ResultsDir: "results"}
	require.NoError(t, validateConfig(valid))

	bad := valid
	bad.Min = 1000
	assert.Error(t, validateConfig(bad))
	bad = valid
	bad.Min = -1
	assert.Error(t, validateConfig(bad))
	bad = valid
	bad.ResultsDir = ""
	assert.Error(t, validateConfig(bad))
	bad = valid
	bad.Max = math.MaxInt
	assert.Error(t, validateConfig(bad))
	bad = valid
	bad.Min = 0
	bad.Max = generator.MaxOperand
	assert.NoError(t, validateConfig(bad))
}

func TestDrillRejectsOverflowingMax(t *testing.T) {
	dir := t.TempDir()
	out, err := runRoot(t, "", "--results-dir", dir, "--min", "0", "--max", "9223372036854775807")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--max")
	assert.NotContains(t, out, "# 1:")
}

func TestConfigTemplateNotesResultsLocation(t *testing.T) {
	tmpl := defaultConfigTemplate()
	assert.Contains(t, tmpl, "XDG data dir")
	assert.Contains(t, tmpl, "results/")
	assert.Contains(t, tmpl, "# results-dir = ")
}
