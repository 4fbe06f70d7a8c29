package ports

import (
	"io"

	"datadash/domain/dataset"
)

// TableReader parses an uploaded byte stream into a Table.
// Malformed or empty input fails with core.ErrParse.
type TableReader interface {
	Read(r io.Reader, filename string) (*dataset.Table, error)
}
