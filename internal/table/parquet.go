package table

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

type parquetLoader struct{}

func (parquetLoader) CanLoad(filename string) bool {
	return hasSuffixFold(filename, ".parquet", ".pq")
}

// Load reads the whole file through Arrow. Parquet columns are already typed,
// so no text inference runs: numbers stay Numeric, dates and timestamps become
// Temporal, and everything else is kept as its string form.
func (parquetLoader) Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()
	pf, err := file.NewParquetReader(f, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("create arrow reader: %w", err)
	}
	tbl, err := fr.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("read parquet data: %w", err)
	}
	defer tbl.Release()

	return FromArrow(filepath.Base(path), tbl, opt.MaxRows)
}

// FromArrow copies an Arrow table into a Table. maxRows <= 0 copies every row.
func FromArrow(name string, tbl arrow.Table, maxRows int) (*Table, error) {
	total := int(tbl.NumRows())
	rows := total
	if maxRows > 0 && maxRows < rows {
		rows = maxRows
	}
	schema := tbl.Schema()
	header := make([]string, len(schema.Fields()))
	for i, fld := range schema.Fields() {
		header[i] = fld.Name
	}
	b := NewBuilder(name, header)
	values := make([][]Value, len(header))
	for i := range header {
		col := make([]Value, 0, rows)
		for _, chunk := range tbl.Column(i).Data().Chunks() {
			for k := 0; k < chunk.Len() && len(col) < rows; k++ {
				col = append(col, arrowValue(chunk, k))
			}
		}
		values[i] = col
	}
	t, err := New(name, b.columns, values)
	if err != nil {
		return nil, err
	}
	if rows < total {
		t.warnings = append(t.warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", rows, total))
	}
	return t, nil
}

func arrowValue(arr arrow.Array, i int) Value {
	if arr.IsNull(i) {
		return Null()
	}
	switch a := arr.(type) {
	case *array.Float64:
		return Numeric(a.Value(i))
	case *array.Float32:
		return Numeric(float64(a.Value(i)))
	case *array.Int64:
		return Numeric(float64(a.Value(i)))
	case *array.Int32:
		return Numeric(float64(a.Value(i)))
	case *array.Int16:
		return Numeric(float64(a.Value(i)))
	case *array.Int8:
		return Numeric(float64(a.Value(i)))
	case *array.Uint64:
		return Numeric(float64(a.Value(i)))
	case *array.Uint32:
		return Numeric(float64(a.Value(i)))
	case *array.Uint16:
		return Numeric(float64(a.Value(i)))
	case *array.Uint8:
		return Numeric(float64(a.Value(i)))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return Temporal(a.Value(i).ToTime(unit).UTC())
	case *array.Date32:
		return Temporal(a.Value(i).ToTime())
	case *array.Date64:
		return Temporal(a.Value(i).ToTime())
	case *array.String:
		return Other(a.Value(i))
	case *array.LargeString:
		return Other(a.Value(i))
	default:
		return Other(arr.ValueStr(i))
	}
}
