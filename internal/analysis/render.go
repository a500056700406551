package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KaramelBytes/dataverify/internal/table"
	"gopkg.in/yaml.v3"
)

// Formats accepted by Encode.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// ValidFormat reports whether Encode understands format.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md", FormatJSON, FormatYAML, "yml":
		return true
	}
	return false
}

// Encode writes v (a *Report or *SortednessResult) in the given format.
func Encode(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown, "md", "":
		var s string
		switch x := v.(type) {
		case *Report:
			s = x.Markdown()
		case *SortednessResult:
			s = x.Markdown()
		default:
			return fmt.Errorf("markdown: unsupported value %T", v)
		}
		_, err := io.WriteString(w, s)
		return err
	default:
		return fmt.Errorf("unknown format %q (use markdown, json or yaml)", format)
	}
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Columns)))

	b.WriteString("[SCHEMA]\n")
	if len(r.Columns) == 0 {
		b.WriteString("(no columns)\n")
	}
	for _, c := range r.Columns {
		b.WriteString(c.line())
		b.WriteString("\n")
	}
	if len(r.Sorting) > 0 {
		b.WriteString("\n[SORTEDNESS]\n")
		for i := range r.Sorting {
			b.WriteString("- ")
			b.WriteString(r.Sorting[i].Summary())
			b.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c ColumnProfile) line() string {
	var b strings.Builder
	missing := "n/a"
	if c.NullPercentage != nil {
		missing = fmt.Sprintf("%.2f%%", *c.NullPercentage)
	}
	b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, null %d, missing %s, distinct %d",
		safeName(c.Name), c.Type, c.NonNullCount, c.NullCount, missing, c.DistinctCount))
	if c.IsUnique {
		b.WriteString(", unique")
	}
	b.WriteString(")")
	switch {
	case c.Numeric != nil:
		n := c.Numeric
		b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, median %.4g", n.Min, n.Max, n.Mean, n.Median))
	case c.Temporal != nil:
		b.WriteString(fmt.Sprintf(" — from %s to %s", formatTime(c.Temporal.Min), formatTime(c.Temporal.Max)))
	}
	return b.String()
}

// Summary is a one-line description, e.g. "id: ascending".
func (s *SortednessResult) Summary() string {
	line := fmt.Sprintf("%s: %s", safeName(s.Column), s.Status)
	if bp := s.Breakpoint; bp != nil {
		line += fmt.Sprintf(" (break at row %d: %s -> %s)", bp.Row, safeVal(bp.Previous.String()), safeVal(bp.Current.String()))
	}
	return line
}

// Markdown renders a single sort check.
func (s *SortednessResult) Markdown() string {
	var b strings.Builder
	b.WriteString("[SORTEDNESS]\n")
	b.WriteString(fmt.Sprintf("Column: %s\n", safeName(s.Column)))
	b.WriteString(fmt.Sprintf("Status: %s\n", s.Status))
	b.WriteString(fmt.Sprintf("Ascending: %t\n", s.IsAscending))
	b.WriteString(fmt.Sprintf("Descending: %t\n", s.IsDescending))
	if bp := s.Breakpoint; bp != nil {
		b.WriteString(fmt.Sprintf("Break-point: row %d\n", bp.Row))
		b.WriteString(fmt.Sprintf("  previous: %s\n", safeVal(bp.Previous.String())))
		b.WriteString(fmt.Sprintf("  current: %s\n", safeVal(bp.Current.String())))
	}
	return b.String()
}

func formatTime(t time.Time) string { return table.Temporal(t).String() }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
