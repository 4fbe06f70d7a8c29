package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"datadash/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())

	table, err := reader.Read(strings.NewReader("age,city\n25,NY\n30,LA\n,NY\n40,SF\n"), "people.csv")
	require.NoError(t, err)

	assert.Equal(t, "people.csv", table.Source)
	assert.Equal(t, 4, table.RowCount())
	assert.Equal(t, []string{"age", "city"}, table.ColumnNames())

	age, ok := table.Column("age")
	require.True(t, ok)
	assert.Equal(t, []string{"25", "30", "", "40"}, age.Cells)
}

func TestReadCSVHandlesQuotingAndBOM(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())

	input := "\xEF\xBB\xBFname,note\n\"Smith, J\",\"said \"\"hi\"\"\"\n"
	table, err := reader.ReadCSV(strings.NewReader(input), "quoted.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "note"}, table.ColumnNames())
	assert.Equal(t, []string{"Smith, J", `said "hi"`}, table.Row(0))
}

func TestReadCSVSniffsDelimiter(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())

	table, err := reader.ReadCSV(strings.NewReader("a;b;c\n1;2;3\n"), "semi.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, table.ColumnNames())

	table, err = reader.ReadCSV(strings.NewReader("a\tb\n1\t2\n"), "tabs.tsv")
	require.NoError(t, err)
	assert.Equal(t, 2, table.ColumnCount())
}

func TestReadCSVHeaderOnly(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())

	table, err := reader.ReadCSV(strings.NewReader("a,b\n"), "empty-body.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, table.RowCount())
	assert.Equal(t, 2, table.ColumnCount())
}

func TestReadCSVMaxRows(t *testing.T) {
	reader := NewDataReader(ReaderConfig{MaxRows: 2})

	table, err := reader.ReadCSV(strings.NewReader("a\n1\n2\n3\n4\n"), "long.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, table.RowCount())
	assert.True(t, table.Truncated)

	table, err = reader.ReadCSV(strings.NewReader("a\n1\n2\n"), "exact.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, table.RowCount())
	assert.False(t, table.Truncated, "input that fits the limit is complete")
}

func TestReadXLSXMaxRows(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"n"}))
	for i := 2; i <= 5; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, i))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	table, err := NewDataReader(ReaderConfig{MaxRows: 3}).Read(bytes.NewReader(buf.Bytes()), "long.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 3, table.RowCount())
	assert.True(t, table.Truncated)
}

func TestReadCSVParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\n "},
		{"ragged row", "a,b\n1,2\n3\n"},
		{"extra field", "a,b\n1,2,3\n"},
		{"bad quote", "a,b\n\"1,2\n"},
		{"invalid utf-8", "a,b\n\xff\xfe,1\n"},
		{"duplicate header", "a,a\n1,2\n"},
		{"empty header", "a,\n1,2\n"},
	}

	reader := NewDataReader(DefaultReaderConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reader.ReadCSV(strings.NewReader(tt.input), "bad.csv")
			require.Error(t, err)
			assert.True(t, core.IsParseError(err), "expected parse error, got %v", err)
		})
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"age", "city"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{25, "NY"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{30}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reader := NewDataReader(DefaultReaderConfig())
	table, err := reader.Read(bytes.NewReader(buf.Bytes()), "people.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "city"}, table.ColumnNames())
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, []string{"30", ""}, table.Row(1))
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())

	_, err := reader.Read(strings.NewReader("definitely not a zip archive"), "broken.xlsx")
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("score\n1\n2\n"), 0o600))

	table, err := NewDataReader(DefaultReaderConfig()).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scores.csv", table.Source)
	assert.Equal(t, 2, table.RowCount())

	_, err = NewDataReader(DefaultReaderConfig()).ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
