package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".csv", ".tsv", ".txt")
}

func (csvLoader) Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return ReadCSV(f, filepath.Base(path), delim, opt)
}

// ReadCSV reads a header row followed by data rows. An empty input yields a
// table with no columns.
func ReadCSV(r io.Reader, name string, delim rune, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	if delim != 0 {
		cr.Comma = delim
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(name, nil, nil)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	// ReuseRecord recycles the backing array.
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	b := NewBuilder(name, header)
	cells := newCellParser(opt)
	maxRows := opt.MaxRows
	total := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", total+1, err)
		}
		total++
		if maxRows > 0 && b.Rows() >= maxRows {
			continue
		}
		row := make([]Value, len(rec))
		for j, raw := range rec {
			row[j] = cells.Parse(raw)
		}
		b.Append(row)
	}
	if b.Rows() < total {
		b.Warn("loaded only %d/%d rows due to MaxRows", b.Rows(), total)
	}
	return b.Build()
}

func sniffDelimiter(path string) rune {
	if hasSuffixFold(path, ".tsv") {
		return '\t'
	}
	// Default to comma; using filename heuristic only to avoid reading twice.
	return ','
}

func trimBOM(s string) string { return strings.TrimPrefix(s, "\uFEFF") }
