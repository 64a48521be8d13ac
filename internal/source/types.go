package source

import (
	"errors"
	"time"
)

// Format identifies a catalog file encoding.
type Format string

// Supported catalog formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for files spesa cannot decode, such as
// legacy binary .xls workbooks.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// DiscoveredFile represents a catalog file found during directory scanning.
type DiscoveredFile struct {
	Path    string
	Name    string // base name without extension
	Format  Format
	Size    int64
	ModTime time.Time
}

// ReadOptions controls spreadsheet decoding.
type ReadOptions struct {
	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string
}
