package table

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRejectsMalformedTables(t *testing.T) {
	if _, err := New("dup", []string{"a", "a"}, [][]Value{{}, {}}); err == nil {
		t.Fatalf("expected duplicate column error")
	}
	if _, err := New("ragged", []string{"a", "b"}, [][]Value{{Numeric(1)}, {}}); err == nil {
		t.Fatalf("expected column length error")
	}
	if _, err := New("count", []string{"a"}, nil); err == nil {
		t.Fatalf("expected name/column count error")
	}
	empty, err := New("empty", nil, nil)
	if err != nil {
		t.Fatalf("empty table: %v", err)
	}
	if empty.Rows() != 0 || len(empty.Columns()) != 0 {
		t.Fatalf("empty table has rows=%d cols=%v", empty.Rows(), empty.Columns())
	}
}

func TestColumnNotFound(t *testing.T) {
	tbl, err := New("t", []string{"id", "name"}, [][]Value{{Numeric(1)}, {Other("a")}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = tbl.Column("missing")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("err = %v, want ErrColumnNotFound", err)
	}
	var cnf *ColumnNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("err %T is not *ColumnNotFoundError", err)
	}
	if cnf.Column != "missing" {
		t.Fatalf("column = %q", cnf.Column)
	}
	if diff := cmp.Diff([]string{"id", "name"}, cnf.Available); diff != "" {
		t.Fatalf("available mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "Available columns: id, name") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestColumnsIsACopy(t *testing.T) {
	tbl, err := New("t", []string{"a"}, [][]Value{{Null()}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cols := tbl.Columns()
	cols[0] = "changed"
	if tbl.Columns()[0] != "a" {
		t.Fatalf("table columns mutated through returned slice")
	}
}

func TestBuilderPadsCutsAndDedupes(t *testing.T) {
	b := NewBuilder("b", []string{"id", "", "id", " note "})
	b.Append([]Value{Numeric(1), Other("x"), Numeric(2), Other("n")})
	b.Append([]Value{Numeric(2)})
	b.Append([]Value{Numeric(3), Other("y"), Numeric(4), Other("m"), Other("extra")})
	tbl, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff([]string{"id", "col_2", "id_2", "note"}, tbl.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if tbl.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Rows())
	}
	note, err := tbl.Column("note")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !note.At(1).IsNull() {
		t.Fatalf("short row not padded with null: %v", note.At(1))
	}
	if len(tbl.Warnings()) != 1 || !strings.Contains(tbl.Warnings()[0], "2 rows did not match") {
		t.Fatalf("warnings = %#v", tbl.Warnings())
	}
}

func TestBuilderDedupeAvoidsHeaderNames(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"suffix already in header", []string{"a_2", "a", "a"}, []string{"a_2", "a", "a_3"}},
		{"suffix appears later", []string{"a", "a", "a_2"}, []string{"a", "a_3", "a_2"}},
		{"blank next to col_N", []string{"x", "col_3", ""}, []string{"x", "col_3", "col_3_2"}},
		{"blank before col_N", []string{"", "col_1"}, []string{"col_1_2", "col_1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tbl, err := NewBuilder("b", tc.header).Build()
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if diff := cmp.Diff(tc.want, tbl.Columns()); diff != "" {
				t.Fatalf("columns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValueKinds(t *testing.T) {
	if !Numeric(math.NaN()).IsNull() {
		t.Fatalf("NaN must be stored as null")
	}
	if Other("").IsNull() {
		t.Fatalf("empty string must not be null")
	}
	if Numeric(0).IsNull() {
		t.Fatalf("zero must not be null")
	}
	var zero Value
	if !zero.IsNull() {
		t.Fatalf("zero Value must be null")
	}
	if got := Temporal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).String(); got != "2024-03-01" {
		t.Fatalf("date string = %q", got)
	}
	if got := Temporal(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)).String(); got != "2024-03-01T12:30:00Z" {
		t.Fatalf("timestamp string = %q", got)
	}
	if got := Numeric(2.5).String(); got != "2.5" {
		t.Fatalf("numeric string = %q", got)
	}
	if got := Null().String(); got != "null" {
		t.Fatalf("null string = %q", got)
	}
}

func TestValueKeyAndCompare(t *testing.T) {
	if Null().Key() != Null().Key() {
		t.Fatalf("nulls must share a key")
	}
	if Numeric(0).Key() != Numeric(math.Copysign(0, -1)).Key() {
		t.Fatalf("-0 and 0 must share a key")
	}
	if Numeric(1).Key() == Other("1").Key() {
		t.Fatalf("numeric 1 and text \"1\" must differ")
	}
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.Add(time.Hour)
	cases := []struct {
		a, b Value
		want int
	}{
		{Numeric(1), Numeric(2), -1},
		{Numeric(2), Numeric(2), 0},
		{Numeric(3), Numeric(2), 1},
		{Temporal(d1), Temporal(d2), -1},
		{Temporal(d2), Temporal(d2.In(time.FixedZone("X", 3600))), 0},
		{Other("a"), Other("b"), -1},
		{Numeric(100), Temporal(d1), -1},
		{Other("0"), Numeric(5), 1},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Fatalf("Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
