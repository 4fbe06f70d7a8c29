package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"datadash/domain/core"
	"datadash/domain/dataset"
	"datadash/internal"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader handles reading CSV and Excel uploads into tables
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{config: config, logger: internal.DefaultLogger}
}

// Read dispatches on the file extension: .xlsx/.xlsm are read as workbooks,
// everything else as delimited text.
func (r *DataReader) Read(rd io.Reader, filename string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return r.ReadXLSX(rd, filename)
	default:
		return r.ReadCSV(rd, filename)
	}
}

// ReadFile reads a dataset from disk
func (r *DataReader) ReadFile(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(f, filepath.Base(path))
}

// ReadCSV parses delimited text. The first record is the header.
func (r *DataReader) ReadCSV(rd io.Reader, source string) (*dataset.Table, error) {
	start := time.Now()

	raw, err := io.ReadAll(rd)
	if err != nil {
		return nil, core.NewParseError("unreadable input: %v", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, core.NewParseError("input is empty")
	}
	if !utf8.Valid(raw) {
		return nil, core.NewParseError("input is not valid UTF-8 text")
	}

	delim := r.config.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(raw)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = delim
	reader.FieldsPerRecord = 0

	var records [][]string
	truncated := false
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, core.NewParseError("line %d: %v", pe.Line, pe.Err)
			}
			return nil, core.NewParseError("%v", err)
		}
		if r.limitReached(records) {
			truncated = true
			break
		}
		records = append(records, record)
	}

	table, err := buildTable(source, records, truncated)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[DataReader] CSV %s parsed in %.2fms (%d columns, %d rows)",
		source, float64(time.Since(start).Nanoseconds())/1e6, table.ColumnCount(), table.RowCount())
	return table, nil
}

// ReadXLSX parses the configured worksheet (or the first one) of a workbook.
func (r *DataReader) ReadXLSX(rd io.Reader, source string) (*dataset.Table, error) {
	start := time.Now()

	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, core.NewParseError("failed to open Excel workbook: %v", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.NewParseError("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewParseError("failed to read sheet %q: %v", sheet, err)
	}

	// GetRows drops trailing empty cells, so short rows are padded to the
	// header width; blank rows are skipped like blank CSV lines.
	var records [][]string
	width := 0
	truncated := false
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if r.limitReached(records) {
			truncated = true
			break
		}
		if len(records) == 0 {
			width = len(row)
		} else if len(row) > width {
			return nil, core.NewParseError("sheet %q row %d has %d cells, header has %d", sheet, i+1, len(row), width)
		}
		for len(row) < width {
			row = append(row, "")
		}
		records = append(records, row)
	}

	table, err := buildTable(source, records, truncated)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("[DataReader] Excel %s sheet %q parsed in %.2fms (%d columns, %d rows)",
		source, sheet, float64(time.Since(start).Nanoseconds())/1e6, table.ColumnCount(), table.RowCount())
	return table, nil
}

// limitReached reports whether records (header included) already hold
// MaxRows data rows, so a further row would exceed the limit
func (r *DataReader) limitReached(records [][]string) bool {
	return r.config.MaxRows > 0 && len(records) > r.config.MaxRows
}

// buildTable turns header + data records into a column-oriented table
func buildTable(source string, records [][]string, truncated bool) (*dataset.Table, error) {
	if len(records) == 0 {
		return nil, core.NewParseError("input has no header row")
	}

	header := records[0]
	columns := make([]dataset.Column, len(header))
	for j, name := range header {
		columns[j] = dataset.Column{Name: name, Cells: make([]string, 0, len(records)-1)}
	}

	for _, record := range records[1:] {
		for j := range columns {
			columns[j].Cells = append(columns[j].Cells, strings.TrimSpace(record[j]))
		}
	}

	table, err := dataset.NewTable(source, columns)
	if err != nil {
		return nil, err
	}
	if truncated {
		internal.DefaultLogger.Warn("[DataReader] %s truncated at %d rows", source, table.RowCount())
		table.Truncated = true
	}
	return table, nil
}

// sniffDelimiter picks the candidate occurring most often in the header line
func sniffDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}

	best, bestCount := ',', 0
	for _, candidate := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(line, []byte(string(candidate))); n > bestCount {
			best, bestCount = candidate, n
		}
	}
	return best
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
