package table

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLDrivers lists the database/sql driver names LoadSQL accepts.
var SQLDrivers = []string{"sqlite", "mysql", "postgres"}

// LoadSQL runs a read query and loads its result set. Typed driver values map
// directly; text and byte values go through the same inference as CSV cells.
func LoadSQL(ctx context.Context, driver, dsn, query string, opt Options) (*Table, error) {
	if !validDriver(driver) {
		return nil, fmt.Errorf("unsupported sql driver %q (use %s)", driver, strings.Join(SQLDrivers, ", "))
	}
	if driver == "mysql" && !strings.Contains(dsn, "parseTime=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "parseTime=true"
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()
	return QueryTable(ctx, db, driver, query, opt)
}

// QueryTable loads the result of query on an already open database.
func QueryTable(ctx context.Context, db *sql.DB, name, query string, opt Options) (*Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	b := NewBuilder(name, cols)
	cells := newCellParser(opt)
	scan := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range scan {
		ptrs[i] = &scan[i]
	}
	total := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", total+1, err)
		}
		total++
		if opt.MaxRows > 0 && b.Rows() >= opt.MaxRows {
			continue
		}
		row := make([]Value, len(cols))
		for j, raw := range scan {
			row[j] = sqlValue(raw, cells)
		}
		b.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	if b.Rows() < total {
		b.Warn("loaded only %d/%d rows due to MaxRows", b.Rows(), total)
	}
	return b.Build()
}

func sqlValue(raw any, cells *cellParser) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case int64:
		return Numeric(float64(v))
	case int32:
		return Numeric(float64(v))
	case int:
		return Numeric(float64(v))
	case float64:
		return Numeric(v)
	case float32:
		return Numeric(float64(v))
	case bool:
		if v {
			return Other("true")
		}
		return Other("false")
	case time.Time:
		return Temporal(v)
	case []byte:
		return cells.Parse(string(v))
	case string:
		return cells.Parse(v)
	default:
		return Other(fmt.Sprint(v))
	}
}

func validDriver(name string) bool {
	for _, d := range SQLDrivers {
		if d == name {
			return true
		}
	}
	return false
}
