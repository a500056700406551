package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/KaramelBytes/dataverify/internal/table"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func oneColumn(t *testing.T, name string, vals ...table.Value) *table.Table {
	t.Helper()
	if vals == nil {
		vals = []table.Value{}
	}
	tbl, err := table.New("test", []string{name}, [][]table.Value{vals})
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tbl
}

func nums(xs ...float64) []table.Value {
	out := make([]table.Value, len(xs))
	for i, x := range xs {
		out[i] = table.Numeric(x)
	}
	return out
}

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func pct(f float64) *float64 { return &f }

func TestProfileNumeric(t *testing.T) {
	tbl := oneColumn(t, "score", table.Numeric(4), table.Null(), table.Numeric(1), table.Numeric(3), table.Numeric(2))
	got, err := ProfileColumn(tbl, "score")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	want := &ColumnProfile{
		Name:           "score",
		Type:           TypeNumeric,
		NullCount:      1,
		NonNullCount:   4,
		DistinctCount:  5,
		NullPercentage: pct(20),
		IsUnique:       true,
		Numeric:        &NumericSummary{Min: 1, Max: 4, Mean: 2.5, Median: 2.5},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileMedianOddCount(t *testing.T) {
	got, err := ProfileColumn(oneColumn(t, "v", nums(9, 1, 5)...), "v")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	if got.Numeric.Median != 5 || got.Numeric.Mean != 5 {
		t.Fatalf("median=%v mean=%v, want 5 and 5", got.Numeric.Median, got.Numeric.Mean)
	}
}

func TestProfileTemporal(t *testing.T) {
	tbl := oneColumn(t, "when", table.Temporal(day(3)), table.Temporal(day(1)), table.Null(), table.Temporal(day(2)))
	got, err := ProfileColumn(tbl, "when")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	if got.Type != TypeTemporal || got.Numeric != nil {
		t.Fatalf("type=%v numeric=%v", got.Type, got.Numeric)
	}
	if got.Temporal == nil || !got.Temporal.Min.Equal(day(1)) || !got.Temporal.Max.Equal(day(3)) {
		t.Fatalf("temporal = %+v", got.Temporal)
	}
}

func TestProfileMixedIsOther(t *testing.T) {
	tbl := oneColumn(t, "mix", table.Numeric(1), table.Other("x"), table.Temporal(day(1)))
	got, err := ProfileColumn(tbl, "mix")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	if got.Type != TypeOther || got.Numeric != nil || got.Temporal != nil {
		t.Fatalf("profile = %+v", got)
	}
}

func TestProfileAllNullIsOther(t *testing.T) {
	got, err := ProfileColumn(oneColumn(t, "n", table.Null(), table.Null(), table.Null()), "n")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	want := &ColumnProfile{
		Name:           "n",
		Type:           TypeOther,
		NullCount:      3,
		DistinctCount:  1,
		NullPercentage: pct(100),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileUniquenessCountsNullsAsOneValue(t *testing.T) {
	cases := []struct {
		name string
		vals []table.Value
		want bool
	}{
		{"distinct", nums(1, 2, 3), true},
		{"duplicate", nums(1, 2, 2), false},
		{"single null", []table.Value{table.Numeric(1), table.Null()}, true},
		{"two nulls", []table.Value{table.Numeric(1), table.Null(), table.Null()}, false},
		{"empty string is a value", []table.Value{table.Other(""), table.Null()}, true},
		{"zero is a value", []table.Value{table.Numeric(0), table.Null()}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ProfileColumn(oneColumn(t, "c", c.vals...), "c")
			if err != nil {
				t.Fatalf("ProfileColumn: %v", err)
			}
			if got.IsUnique != c.want {
				t.Fatalf("IsUnique = %v, want %v (distinct %d)", got.IsUnique, c.want, got.DistinctCount)
			}
		})
	}
}

func TestProfileZeroRows(t *testing.T) {
	got, err := ProfileColumn(oneColumn(t, "empty"), "empty")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	if got.NullCount != 0 || got.NullPercentage != nil || !got.IsUnique {
		t.Fatalf("profile = %+v", got)
	}
	if got.Numeric != nil || got.Temporal != nil {
		t.Fatalf("summaries must be unavailable: %+v", got)
	}
}

func TestProfileColumnNotFound(t *testing.T) {
	_, err := ProfileColumn(oneColumn(t, "a", nums(1)...), "b")
	if !errors.Is(err, table.ErrColumnNotFound) {
		t.Fatalf("err = %v, want ErrColumnNotFound", err)
	}
}

// Range and count invariants over a handful of shapes.
func TestProfileInvariants(t *testing.T) {
	columns := [][]table.Value{
		nums(5),
		nums(1, 1, 1, 1),
		nums(-3, 10, 2.5, 7, -1e6, 1e6),
		append(nums(0.1, 0.2, 0.3), table.Null(), table.Numeric(0.7)),
		nums(1e-300, 1e300, 3),
	}
	for i, vals := range columns {
		tbl := oneColumn(t, "v", vals...)
		p, err := ProfileColumn(tbl, "v")
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if p.NullCount+p.NonNullCount != tbl.Rows() {
			t.Fatalf("case %d: nulls %d + non-null %d != rows %d", i, p.NullCount, p.NonNullCount, tbl.Rows())
		}
		n := p.Numeric
		if n == nil {
			t.Fatalf("case %d: missing numeric summary", i)
		}
		if !(n.Min <= n.Median && n.Median <= n.Max) || !(n.Min <= n.Mean && n.Mean <= n.Max) {
			t.Fatalf("case %d: summary out of range %+v", i, n)
		}
		if math.IsNaN(n.Mean) || math.IsNaN(n.Median) {
			t.Fatalf("case %d: NaN in summary %+v", i, n)
		}
	}
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	if got := quantile(s, 0.5); got != 2.5 {
		t.Fatalf("median = %v, want 2.5", got)
	}
	if got := quantile(s, 0); got != 1 {
		t.Fatalf("q0 = %v", got)
	}
	if got := quantile(s, 1); got != 4 {
		t.Fatalf("q1 = %v", got)
	}
	if got := quantile(nil, 0.5); got != 0 {
		t.Fatalf("empty = %v", got)
	}
}

func TestProfileInfiniteValues(t *testing.T) {
	got, err := ProfileColumn(oneColumn(t, "v", nums(math.Inf(1), 1)...), "v")
	if err != nil {
		t.Fatalf("ProfileColumn: %v", err)
	}
	n := got.Numeric
	if !math.IsInf(n.Mean, 1) || !math.IsInf(n.Max, 1) || n.Min != 1 {
		t.Fatalf("numeric = %+v, want min 1, max +Inf, mean +Inf", n)
	}
	if n.Mean < n.Min || n.Mean > n.Max {
		t.Fatalf("mean %v outside [%v, %v]", n.Mean, n.Min, n.Max)
	}
}
