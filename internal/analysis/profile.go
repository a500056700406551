package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/KaramelBytes/dataverify/internal/table"
)

// columnAcc accumulates everything a profile needs in one pass.
type columnAcc struct {
	nulls    int
	numCnt   int
	dtCnt    int
	distinct map[table.Key]struct{}

	// numeric stats
	sum  float64
	min  float64
	max  float64
	vals []float64

	minT, maxT time.Time
}

func newColumnAcc(rows int) *columnAcc {
	return &columnAcc{
		distinct: make(map[table.Key]struct{}, rows),
		min:      math.Inf(1),
		max:      math.Inf(-1),
	}
}

func (c *columnAcc) add(v table.Value) {
	c.distinct[v.Key()] = struct{}{}
	switch v.Kind() {
	case table.KindNull:
		c.nulls++
	case table.KindNumeric:
		x, _ := v.Float()
		c.numCnt++
		if x < c.min {
			c.min = x
		}
		if x > c.max {
			c.max = x
		}
		c.sum += x
		c.vals = append(c.vals, x)
	case table.KindTemporal:
		ts, _ := v.Time()
		if c.dtCnt == 0 || ts.Before(c.minT) {
			c.minT = ts
		}
		if c.dtCnt == 0 || ts.After(c.maxT) {
			c.maxT = ts
		}
		c.dtCnt++
	}
}

// ProfileColumn computes the statistics record for one column. It fails with
// a *table.ColumnNotFoundError when the column does not exist.
func ProfileColumn(t *table.Table, name string) (*ColumnProfile, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	rows := col.Len()
	acc := newColumnAcc(rows)
	for i := 0; i < rows; i++ {
		acc.add(col.At(i))
	}

	nonNull := rows - acc.nulls
	p := &ColumnProfile{
		Name:          name,
		Type:          TypeOther,
		NullCount:     acc.nulls,
		NonNullCount:  nonNull,
		DistinctCount: len(acc.distinct),
		IsUnique:      len(acc.distinct) == rows,
	}
	if rows > 0 {
		pct := float64(acc.nulls) * 100.0 / float64(rows)
		p.NullPercentage = &pct
	}
	switch {
	case nonNull == 0:
		// nothing to classify
	case acc.numCnt == nonNull:
		p.Type = TypeNumeric
		sort.Float64s(acc.vals)
		mean := acc.sum / float64(acc.numCnt)
		if !math.IsInf(mean, 0) && !math.IsNaN(mean) {
			mean = math.Min(math.Max(mean, acc.min), acc.max) // rounding can drift past the range
		}
		p.Numeric = &NumericSummary{
			Min:    acc.min,
			Max:    acc.max,
			Mean:   mean,
			Median: quantile(acc.vals, 0.5),
		}
	case acc.dtCnt == nonNull:
		p.Type = TypeTemporal
		p.Temporal = &TemporalRange{Min: acc.minT, Max: acc.maxT}
	}
	return p, nil
}

// quantile interpolates linearly between the closest ranks of sorted.
// At q=0.5 this is the standard median.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
