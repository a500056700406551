// Package analysis profiles table columns and classifies their sort order.
//
// Everything here is a pure function of a *table.Table: nothing is cached
// between calls and nothing mutates the table, so callers may run any number
// of profiles or sort checks over the same table concurrently.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/dataverify/internal/table"
)

// ColumnType is the primitive classification of a column's non-null values.
type ColumnType int

const (
	TypeOther ColumnType = iota
	TypeNumeric
	TypeTemporal
)

func (t ColumnType) String() string {
	switch t {
	case TypeNumeric:
		return "numeric"
	case TypeTemporal:
		return "temporal"
	default:
		return "other"
	}
}

func (t ColumnType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ColumnProfile captures the statistics computed for one column.
type ColumnProfile struct {
	Name          string     `json:"name" yaml:"name"`
	Type          ColumnType `json:"type" yaml:"type"`
	NullCount     int        `json:"null_count" yaml:"null_count"`
	NonNullCount  int        `json:"non_null_count" yaml:"non_null_count"`
	DistinctCount int        `json:"distinct_count" yaml:"distinct_count"`
	// NullPercentage is nil when the table has no rows.
	NullPercentage *float64 `json:"null_percentage,omitempty" yaml:"null_percentage,omitempty"`
	IsUnique       bool     `json:"is_unique" yaml:"is_unique"`
	// Numeric is set only for numeric columns with at least one non-null value.
	Numeric *NumericSummary `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	// Temporal is set only for temporal columns with at least one non-null value.
	Temporal *TemporalRange `json:"temporal,omitempty" yaml:"temporal,omitempty"`
}

// NumericSummary holds range and central tendency over non-null values.
type NumericSummary struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
}

// MarshalJSON writes non-finite statistics as the strings "+Inf", "-Inf" and
// "NaN", which encoding/json rejects as numbers.
func (n NumericSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Min    jsonFloat `json:"min"`
		Max    jsonFloat `json:"max"`
		Mean   jsonFloat `json:"mean"`
		Median jsonFloat `json:"median"`
	}{jsonFloat(n.Min), jsonFloat(n.Max), jsonFloat(n.Mean), jsonFloat(n.Median)})
}

type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	x := float64(f)
	switch {
	case math.IsNaN(x):
		return []byte(`"NaN"`), nil
	case math.IsInf(x, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(x, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(x)
}

// TemporalRange holds the earliest and latest non-null instants.
type TemporalRange struct {
	Min time.Time `json:"min_date" yaml:"min_date"`
	Max time.Time `json:"max_date" yaml:"max_date"`
}

// SortStatus is the monotonicity classification of a column.
type SortStatus int

const (
	AllSame SortStatus = iota
	Ascending
	Descending
	NotSorted
)

func (s SortStatus) String() string {
	switch s {
	case AllSame:
		return "all_same"
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case NotSorted:
		return "not_sorted"
	default:
		return fmt.Sprintf("SortStatus(%d)", int(s))
	}
}

func (s SortStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SortednessResult reports how a column's non-null values are ordered.
type SortednessResult struct {
	Column       string     `json:"column" yaml:"column"`
	Status       SortStatus `json:"sorting_status" yaml:"sorting_status"`
	IsAscending  bool       `json:"is_ascending" yaml:"is_ascending"`
	IsDescending bool       `json:"is_descending" yaml:"is_descending"`
	// Breakpoint is set only when Status is NotSorted.
	Breakpoint *Breakpoint `json:"breakpoint,omitempty" yaml:"breakpoint,omitempty"`
}

// Breakpoint is the first place where a value is smaller than the non-null value before it.
type Breakpoint struct {
	Row      int         `json:"row" yaml:"row"` // 1-based
	Previous table.Value `json:"previous" yaml:"previous"`
	Current  table.Value `json:"current" yaml:"current"`
}

// Report is the full profile of a table, one entry per column in table order.
type Report struct {
	Name     string             `json:"name" yaml:"name"`
	Rows     int                `json:"rows" yaml:"rows"`
	Columns  []ColumnProfile    `json:"columns" yaml:"columns"`
	Sorting  []SortednessResult `json:"sorting,omitempty" yaml:"sorting,omitempty"`
	Warnings []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Get returns the profile of the named column.
func (r *Report) Get(name string) (ColumnProfile, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// Names lists the profiled columns in order.
func (r *Report) Names() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Name
	}
	return out
}
