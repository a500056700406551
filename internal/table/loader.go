package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Options controls how raw sources become a Table.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, picked from the file extension (.tsv = tab, otherwise comma).
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// NullValues are raw tokens read as null (compared after trimming spaces).
	NullValues []string
	// XLSX sheet selection. SheetName wins; SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultNullValues mirrors the tokens most CSV tooling reads as missing.
var DefaultNullValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-NaN", "-nan", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// DefaultOptions returns reasonable defaults for loading datasets.
func DefaultOptions() Options {
	return Options{
		MaxRows:    0,
		SheetIndex: 1,
		NullValues: append([]string(nil), DefaultNullValues...),
	}
}

// Loader reads one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a format no registered loader handles.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadFile selects a loader based on filename and returns the loaded table.
func LoadFile(path string, opt Options) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%s: %w (supported: .csv, .tsv, .xlsx, .parquet)", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(parquetLoader{})
}

func hasSuffixFold(name string, exts ...string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}
