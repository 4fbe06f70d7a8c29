package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"datadash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	ids := make([]string, rows)
	names := make([]string, rows)
	for i := 0; i < rows; i++ {
		ids[i] = fmt.Sprintf("%d", i+1)
		names[i] = fmt.Sprintf("row-%02d", i+1)
	}
	if rows > 1 {
		names[1] = ""
	}
	table, err := dataset.NewTable("sample.csv", []dataset.Column{
		{Name: "id", Cells: ids},
		{Name: "name", Cells: names},
	})
	require.NoError(t, err)
	return table
}

func TestBuildQuestionPromptLayout(t *testing.T) {
	prompt, err := BuildQuestionPrompt(sampleTable(t, 3), "How many rows are there?", 10)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "You are a data analyst. Your job is to answer questions based on the following table of data.\n\nData Table:\n"))
	assert.Contains(t, prompt, "Rules:\n- Only use the provided data to answer.\n")
	assert.Contains(t, prompt, `- If the answer is not directly found, say "I cannot determine from the provided data."`)
	assert.Contains(t, prompt, "- Be short and precise.")
	assert.True(t, strings.HasSuffix(prompt, "Question:\nHow many rows are there?\n\nAnswer:"))

	assert.Contains(t, prompt, "row-01")
	assert.Contains(t, prompt, "NaN")
	assert.Less(t, strings.Index(prompt, "Data Table:"), strings.Index(prompt, "Rules:"))
}

func TestBuildQuestionPromptBoundsSample(t *testing.T) {
	prompt, err := BuildQuestionPrompt(sampleTable(t, 25), "q", 10)
	require.NoError(t, err)
	assert.Contains(t, prompt, "row-10")
	assert.NotContains(t, prompt, "row-11")

	prompt, err = BuildQuestionPrompt(sampleTable(t, 25), "q", 3)
	require.NoError(t, err)
	assert.Contains(t, prompt, "row-03")
	assert.NotContains(t, prompt, "row-04")

	prompt, err = BuildQuestionPrompt(sampleTable(t, 25), "q", 0)
	require.NoError(t, err)
	assert.Contains(t, prompt, "row-10")
	assert.NotContains(t, prompt, "row-11")
}

func TestBuildQuestionPromptKeepsQuestionVerbatim(t *testing.T) {
	question := "What is {SAMPLE} in column \"name\"?\n  (exactly)"
	prompt, err := BuildQuestionPrompt(sampleTable(t, 2), question, 10)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Question:\n"+question+"\n\nAnswer:")
}

func TestRenderSample(t *testing.T) {
	out := RenderSample(sampleTable(t, 2), 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "id")
	assert.Contains(t, lines[0], "name")
	assert.Contains(t, lines[1], "row-01")
	assert.True(t, strings.HasSuffix(lines[2], "NaN"))
	for _, line := range lines {
		assert.NotContains(t, line, "|")
	}
}

func TestRenderSampleHeaderOnly(t *testing.T) {
	out := RenderSample(sampleTable(t, 0), 10)
	assert.Equal(t, 1, len(strings.Split(out, "\n")))
	assert.Contains(t, out, "id")
}

func TestPromptManagerOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PromptQuestionAnswer+".txt"), []byte("Q={QUESTION}\n"), 0o600))

	pm := NewPromptManager(dir)
	prompt, err := pm.CompileQuestionPrompt(sampleTable(t, 1), "why?", 5)
	require.NoError(t, err)
	assert.Equal(t, "Q=why?", prompt)

	_, err = pm.LoadPrompt("missing")
	assert.Error(t, err)
}
