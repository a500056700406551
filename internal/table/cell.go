package table

import (
	"strconv"
	"strings"
	"time"
)

// cellParser turns raw text cells into tagged Values.
type cellParser struct {
	nulls map[string]struct{}
	opt   Options
}

func newCellParser(opt Options) *cellParser {
	nulls := make(map[string]struct{}, len(opt.NullValues))
	for _, n := range opt.NullValues {
		nulls[strings.TrimSpace(n)] = struct{}{}
	}
	return &cellParser{nulls: nulls, opt: opt}
}

// Parse tries null, then numeric, then datetime; anything else stays text.
func (p *cellParser) Parse(raw string) Value {
	v := strings.TrimSpace(raw)
	if _, ok := p.nulls[v]; ok {
		return Null()
	}
	if v == "" {
		return Other(v)
	}
	if x, ok := parseNumeric(v, p.opt); ok {
		return Numeric(x)
	}
	if t, ok := parseTimeMaybe(v); ok {
		return Temporal(t)
	}
	return Other(v)
}

var timeLayouts = []string{
	time.RFC3339Nano, time.RFC3339, "2006-01-02", "2006/01/02", "2006.01.02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999", "2006-01-02T15:04:05",
	"1/2/2006 15:04", "1/2/2006 15:04:05", "Jan 2, 2006", "2 Jan 2006",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumeric accepts locale-formatted numbers such as "1.000,5", "1 234"
// and "12%". Unset separators are guessed from the text.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSuffix(strings.TrimSpace(s), "%")
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\u00A0", " "))
	if raw == "" {
		return 0, false
	}
	dec, thou := separators(raw, opt)
	var sb strings.Builder
	for _, r := range raw {
		switch {
		case r == dec:
			sb.WriteByte('.')
		case thou != 0 && r == thou:
		case thou == 0 && (r == ',' || r == '.' || r == ' '):
		default:
			sb.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(sb.String(), 64)
	return f, err == nil
}

// separators picks the decimal and thousands marks. With both ',' and '.'
// present, whichever comes last is the decimal mark.
func separators(raw string, opt Options) (dec, thou rune) {
	dec, thou = opt.DecimalSeparator, opt.ThousandsSeparator
	if dec != 0 {
		return dec, thou
	}
	comma, dot := strings.LastIndexByte(raw, ','), strings.LastIndexByte(raw, '.')
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		return ',', '.'
	case comma >= 0 && dot >= 0:
		return '.', ','
	case comma >= 0:
		return ',', thou
	default:
		return '.', thou
	}
}
