package excel

// ReaderConfig controls how uploaded files are parsed
type ReaderConfig struct {
	// Delimiter for CSV input. 0 sniffs the header line among , ; tab and |.
	Delimiter rune `json:"delimiter"`
	// MaxRows caps the number of data rows read; 0 means unlimited.
	MaxRows int `json:"max_rows"`
	// Sheet selects the XLSX worksheet; "" reads the first sheet.
	Sheet string `json:"sheet"`
}

// DefaultReaderConfig returns sensible defaults for dataset uploads
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}
