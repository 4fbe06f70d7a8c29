package ai

import (
	"strings"

	"datadash/domain/dataset"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultSampleRows is the number of leading rows embedded in a prompt
const DefaultSampleRows = 10

// CompileQuestionPrompt embeds the first sampleRows rows of t and the
// question into the question-answering template. The question is inserted
// verbatim.
func (pm *PromptManager) CompileQuestionPrompt(t *dataset.Table, question string, sampleRows int) (string, error) {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}
	return pm.RenderPrompt(PromptQuestionAnswer, map[string]string{
		"SAMPLE":   RenderSample(t, sampleRows),
		"QUESTION": question,
	})
}

// BuildQuestionPrompt compiles the question prompt from the built-in template
func BuildQuestionPrompt(t *dataset.Table, question string, sampleRows int) (string, error) {
	return NewPromptManager("").CompileQuestionPrompt(t, question, sampleRows)
}

// RenderSample renders the header and first n rows of t as a plain,
// right-aligned text table without an index column. Missing cells print as
// NaN.
func RenderSample(t *dataset.Table, n int) string {
	tw := table.NewWriter()

	style := table.StyleDefault
	style.Options = table.OptionsNoBordersAndSeparators
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	names := t.ColumnNames()
	header := make(table.Row, len(names))
	configs := make([]table.ColumnConfig, len(names))
	for i, name := range names {
		header[i] = name
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight, AlignHeader: text.AlignRight}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range t.Head(n) {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			if dataset.IsMissing(cell) {
				cell = "NaN"
			}
			row[i] = cell
		}
		tw.AppendRow(row)
	}

	lines := strings.Split(tw.Render(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
