package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"datadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const people = "age,income,city\n25,40000,NY\n30,52000,LA\n,61000,NY\n40,75000,SF\n"

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", writeCSV(t, people))
	require.NoError(t, err)

	assert.Contains(t, out, "Shape: (4, 3)")
	assert.Contains(t, out, "Columns: age, income, city")
	assert.Contains(t, out, "31.666667")
	assert.Contains(t, out, "25%")
}

func TestClassifyCommandJSON(t *testing.T) {
	out, err := run(t, "classify", writeCSV(t, people), "-o", "json")
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"age", "income"}, got["numeric"])
	assert.Equal(t, []string{"city"}, got["categorical"])
}

func TestCountsCommand(t *testing.T) {
	out, err := run(t, "counts", writeCSV(t, people), "city")
	require.NoError(t, err)
	assert.Contains(t, out, "NY")
	assert.Contains(t, out, "TOTAL")

	_, err = run(t, "counts", writeCSV(t, people), "age")
	assert.ErrorIs(t, err, core.ErrInvalidColumn)
}

func TestCorrCommand(t *testing.T) {
	out, err := run(t, "corr", writeCSV(t, people))
	require.NoError(t, err)
	assert.Contains(t, out, "1.00")
}

func TestPlotCommand(t *testing.T) {
	out, err := run(t, "plot", writeCSV(t, people), "age", "income", "--kind", "bar")
	require.NoError(t, err)

	var fig map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &fig))
	assert.Equal(t, "Bar Plot of age vs income", fig["title"])
	assert.Equal(t, "bar-aggregate", fig["primitive"])

	_, err = run(t, "plot", writeCSV(t, people), "city", "income")
	assert.ErrorIs(t, err, core.ErrInvalidColumn)
}

func TestAskCommandWithoutKey(t *testing.T) {
	_, err := run(t, "ask", writeCSV(t, people), "How many rows?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestCommandsRejectMalformedFile(t *testing.T) {
	_, err := run(t, "summary", writeCSV(t, "a,b\n1\n"))
	assert.True(t, core.IsParseError(err))
}
