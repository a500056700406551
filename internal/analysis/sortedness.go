package analysis

import "github.com/KaramelBytes/dataverify/internal/table"

// CheckSorting classifies the order of a column in a single forward pass over
// adjacent row pairs. A pair with a null on either side is skipped entirely,
// so a null never links the values around it. The first descending pair is
// kept as the break-point while scanning; the scan stops as soon as neither
// direction is possible.
func CheckSorting(t *table.Table, name string) (*SortednessResult, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	asc, desc := true, true
	var bp *Breakpoint
	for i := 1; i < col.Len() && (asc || desc); i++ {
		prev, cur := col.At(i-1), col.At(i)
		if prev.IsNull() || cur.IsNull() {
			continue
		}
		switch table.Compare(prev, cur) {
		case 1:
			asc = false
			if bp == nil {
				bp = &Breakpoint{Row: i + 1, Previous: prev, Current: cur}
			}
		case -1:
			desc = false
		}
	}

	res := &SortednessResult{Column: name, IsAscending: asc, IsDescending: desc}
	switch {
	case asc && desc:
		res.Status = AllSame
	case asc:
		res.Status = Ascending
	case desc:
		res.Status = Descending
	default:
		res.Status = NotSorted
		res.Breakpoint = bp
	}
	return res, nil
}
