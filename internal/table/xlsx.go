package table

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".xlsx")
}

// Load reads one worksheet: opt.SheetName when set (case-insensitive), else
// the 1-based opt.SheetIndex (first sheet when <= 0). The first row is the header.
func (xlsxLoader) Load(path string, opt Options) (*Table, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer zr.Close()

	base := filepath.Base(path)
	bk, err := readBook(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}
	part, err := bk.sheetPart(opt.SheetName, opt.SheetIndex)
	if err != nil {
		return nil, fmt.Errorf("%w in workbook '%s'", err, base)
	}
	rows, err := bk.sheetRows(part)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}

	name := base
	if opt.SheetName != "" {
		name = fmt.Sprintf("%s (sheet: %s)", base, opt.SheetName)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return New(name, nil, nil)
	}
	b := NewBuilder(name, rows[0])
	cells := newCellParser(opt)
	data := rows[1:]
	for _, rec := range data {
		if opt.MaxRows > 0 && b.Rows() >= opt.MaxRows {
			break
		}
		row := make([]Value, len(rec))
		for j, raw := range rec {
			row[j] = cells.Parse(raw)
		}
		b.Append(row)
	}
	if b.Rows() < len(data) {
		b.Warn("loaded only %d/%d rows due to MaxRows", b.Rows(), len(data))
	}
	return b.Build()
}

// Workbook parts, decoded with encoding/xml struct tags.
type (
	xlsxBook struct {
		Sheets []xlsxSheetRef `xml:"sheets>sheet"`
	}
	xlsxSheetRef struct {
		Name  string `xml:"name,attr"`
		ID    int    `xml:"sheetId,attr"`
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	}
	xlsxRels struct {
		Items []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	xlsxSST struct {
		Items []xlsxText `xml:"si"`
	}
	// xlsxText is plain <t> text or a list of rich-text runs.
	xlsxText struct {
		T    string `xml:"t"`
		Runs []struct {
			T string `xml:"t"`
		} `xml:"r"`
	}
	xlsxWorksheet struct {
		Rows []struct {
			Cells []xlsxCell `xml:"c"`
		} `xml:"sheetData>row"`
	}
	xlsxCell struct {
		Ref    string    `xml:"r,attr"`
		Type   string    `xml:"t,attr"`
		V      string    `xml:"v"`
		Inline *xlsxText `xml:"is"`
	}
)

func (x xlsxText) String() string {
	if len(x.Runs) == 0 {
		return x.T
	}
	var sb strings.Builder
	sb.WriteString(x.T)
	for _, r := range x.Runs {
		sb.WriteString(r.T)
	}
	return sb.String()
}

type book struct {
	zr     *zip.Reader
	sheets []xlsxSheetRef
	rels   map[string]string
	shared []string
}

func readBook(zr *zip.Reader) (*book, error) {
	bk := &book{zr: zr, rels: map[string]string{}}

	var wb xlsxBook
	if err := decodePart(zr, "xl/workbook.xml", &wb); err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	bk.sheets = wb.Sheets

	var rels xlsxRels
	if err := decodePart(zr, "xl/_rels/workbook.xml.rels", &rels); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("workbook relationships: %w", err)
	}
	for _, r := range rels.Items {
		if r.ID != "" && r.Target != "" {
			bk.rels[r.ID] = normalizeRelPath(r.Target)
		}
	}

	var sst xlsxSST
	if err := decodePart(zr, "xl/sharedStrings.xml", &sst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("shared strings: %w", err)
	}
	bk.shared = make([]string, len(sst.Items))
	for i, si := range sst.Items {
		bk.shared[i] = si.String()
	}
	return bk, nil
}

// sheetPart resolves the zip entry of a sheet by name, or by 1-based index.
func (bk *book) sheetPart(sheetName string, sheetIndex int) (string, error) {
	if sheetName != "" {
		names := make([]string, len(bk.sheets))
		for i, s := range bk.sheets {
			names[i] = s.Name
			if strings.EqualFold(s.Name, sheetName) {
				if part, ok := bk.rels[s.RelID]; ok {
					return part, nil
				}
			}
		}
		return "", fmt.Errorf("sheet '%s' not found (available sheets: %s)", sheetName, strings.Join(names, ", "))
	}
	if sheetIndex <= 0 {
		sheetIndex = 1
	}
	// the index is the sheet's position in the workbook, not its sheetId
	if sheetIndex <= len(bk.sheets) {
		if part, ok := bk.rels[bk.sheets[sheetIndex-1].RelID]; ok {
			return part, nil
		}
	}
	// workbooks without relationships still follow the sheetN naming
	return fmt.Sprintf("xl/worksheets/sheet%d.xml", sheetIndex), nil
}

// sheetRows returns the worksheet as text rows. Cells land at the column of
// their reference, so gaps become empty strings.
func (bk *book) sheetRows(part string) ([][]string, error) {
	var ws xlsxWorksheet
	if err := decodePart(bk.zr, part, &ws); err != nil {
		return nil, fmt.Errorf("worksheet %s: %w", part, err)
	}
	out := make([][]string, 0, len(ws.Rows))
	for _, r := range ws.Rows {
		var row []string
		for _, c := range r.Cells {
			col := colIndexFromRef(c.Ref)
			if col < 0 {
				col = len(row)
			}
			for len(row) <= col {
				row = append(row, "")
			}
			row[col] = bk.cellText(c)
		}
		out = append(out, row)
	}
	return out, nil
}

func (bk *book) cellText(c xlsxCell) string {
	switch c.Type {
	case "s":
		i, err := strconv.Atoi(strings.TrimSpace(c.V))
		if err != nil || i < 0 || i >= len(bk.shared) {
			return ""
		}
		return bk.shared[i]
	case "inlineStr":
		if c.Inline != nil {
			return c.Inline.String()
		}
	case "b":
		if c.V == "1" {
			return "true"
		}
		return "false"
	}
	if c.V == "" && c.Inline != nil {
		return c.Inline.String()
	}
	return c.V
}

func decodePart(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := xml.NewDecoder(f).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// colIndexFromRef maps refs like "C12" to 2 (0-based). A ref without letters yields -1.
func colIndexFromRef(ref string) int {
	letters := strings.IndexFunc(ref, func(r rune) bool {
		return !('A' <= r && r <= 'Z' || 'a' <= r && r <= 'z')
	})
	if letters < 0 {
		letters = len(ref)
	}
	idx := 0
	for _, r := range strings.ToUpper(ref[:letters]) {
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1
}

// normalizeRelPath converts relationship targets to zip entry names, which
// never carry a leading slash.
func normalizeRelPath(rel string) string {
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return "xl/" + rel
}
