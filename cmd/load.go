package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/dataverify/internal/analysis"
	cfgpkg "github.com/KaramelBytes/dataverify/internal/config"
	"github.com/KaramelBytes/dataverify/internal/table"
	"github.com/spf13/cobra"
)

// loadFlags are the dataset loading flags shared by verify, sort-check,
// verify-batch and watch. Unset flags fall back to the config file.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	nullValues string
	sheetName  string
	sheetIndex int
	sqlDriver  string
	sqlQuery   string
}

func (lf *loadFlags) register(cmd *cobra.Command, withSQL bool) {
	f := cmd.Flags()
	f.StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (from extension if omitted)")
	f.StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	f.StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	f.IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	f.StringVar(&lf.nullValues, "null-values", "", "comma-separated tokens read as null (replaces the defaults)")
	f.StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	f.IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	if withSQL {
		f.StringVar(&lf.sqlDriver, "sql-driver", "", "SQL driver: sqlite|mysql|postgres (treats <file> as the DSN)")
		f.StringVar(&lf.sqlQuery, "sql-query", "", "SQL query whose result set is verified (treats <file> as the DSN)")
	}
}

// options resolves loader options: config first, then changed flags.
func (lf *loadFlags) options(cmd *cobra.Command) (table.Options, error) {
	opt, err := cfg.TableOptions()
	if err != nil {
		return opt, err
	}
	f := cmd.Flags()
	if f.Changed("delimiter") {
		if opt.Delimiter, err = cfgpkg.ParseRune(lf.delimiter); err != nil {
			return opt, fmt.Errorf("unsupported --delimiter: %w", err)
		}
	}
	if f.Changed("decimal") {
		switch strings.ToLower(strings.TrimSpace(lf.decimal)) {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
			opt.DecimalSeparator = 0
		default:
			return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", lf.decimal)
		}
	}
	if f.Changed("thousands") {
		switch strings.ToLower(lf.thousands) {
		case ",":
			opt.ThousandsSeparator = ','
		case ".":
			opt.ThousandsSeparator = '.'
		case "space", " ":
			opt.ThousandsSeparator = ' '
		case "":
			opt.ThousandsSeparator = 0
		default:
			return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", lf.thousands)
		}
	}
	if f.Changed("max-rows") {
		if lf.maxRows < 0 {
			return opt, fmt.Errorf("--max-rows must be >= 0")
		}
		opt.MaxRows = lf.maxRows
	}
	if f.Changed("null-values") {
		opt.NullValues = cfgpkg.SplitList(lf.nullValues)
	}
	opt.SheetName = lf.sheetName
	opt.SheetIndex = lf.sheetIndex
	return opt, nil
}

// load reads the dataset named by source: a file path, or a DSN when a SQL
// query was given.
func (lf *loadFlags) load(ctx context.Context, cmd *cobra.Command, source string) (*table.Table, error) {
	opt, err := lf.options(cmd)
	if err != nil {
		return nil, err
	}
	if lf.sqlQuery != "" {
		driver := lf.sqlDriver
		if driver == "" {
			driver = cfg.SQLDriver
		}
		runLog.Debug("loading sql", "driver", driver)
		return table.LoadSQL(ctx, driver, source, lf.sqlQuery, opt)
	}
	runLog.Debug("loading file", "path", source, "max_rows", opt.MaxRows)
	return table.LoadFile(source, opt)
}

// outputFormat picks the report format: flag if given, else config.
func outputFormat(flag string) (string, error) {
	format := flag
	if format == "" {
		format = cfg.OutputFormat
	}
	if format == "" {
		format = "markdown"
	}
	if !analysis.ValidFormat(format) {
		return "", fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
	}
	return strings.ToLower(format), nil
}
