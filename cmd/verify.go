package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/dataverify/internal/analysis"
	"github.com/KaramelBytes/dataverify/internal/table"
	"github.com/KaramelBytes/dataverify/internal/utils"
	"github.com/spf13/cobra"
)

var (
	verLoad        loadFlags
	verCheckSort   []string
	verInteractive bool
	verFormat      string
	verOutputPath  string
)

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Profile every column of a dataset and optionally check sort order",
	Long: `Profile every column of a dataset: type, null count and percentage, distinct count,
uniqueness, and min/max/mean/median (numeric) or earliest/latest (temporal).

With --check-sort the listed columns are also classified as all_same, ascending,
descending or not_sorted. With --interactive the command then keeps asking for
column names to check until 'q' is entered.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(verFormat)
		if err != nil {
			return err
		}
		tbl, err := verLoad.load(cmd.Context(), cmd, args[0])
		if err != nil {
			return err
		}
		svc := analysis.NewService(runLog)
		rep := svc.ProfileAll(tbl)
		if len(verCheckSort) > 0 {
			res, err := svc.CheckColumns(tbl, verCheckSort)
			if err != nil {
				return err
			}
			rep.Sorting = res
		}
		runLog.Info("verified", "table", rep.Name, "rows", rep.Rows, "columns", len(rep.Columns))

		var buf bytes.Buffer
		if err := analysis.Encode(&buf, rep, format); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if verOutputPath != "" {
			if err := utils.SafeWriteFile(verOutputPath, buf.Bytes()); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote report to %s\n", verOutputPath)
		} else {
			fmt.Fprintln(out, strings.TrimRight(buf.String(), "\n"))
		}
		if verInteractive {
			return sortLoop(cmd.InOrStdin(), out, svc, tbl, format)
		}
		return nil
	},
}

// sortLoop asks for column names until 'q' or end of input. Unknown columns
// are reported and the loop keeps going.
func sortLoop(in io.Reader, out io.Writer, svc *analysis.Service, tbl *table.Table, format string) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "\n%s\n", strings.Repeat("-", 50))
		fmt.Fprint(out, "Check sorted column ('q' to quit): ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		name := strings.TrimSpace(sc.Text())
		if strings.EqualFold(name, "q") {
			return nil
		}
		if name == "" {
			continue
		}
		res, err := svc.CheckSorting(tbl, name)
		if err != nil {
			var cnf *table.ColumnNotFoundError
			if errors.As(err, &cnf) {
				fmt.Fprintf(out, "✗ Column not found '%s'\n", cnf.Column)
				fmt.Fprintf(out, "Available columns: %s\n", strings.Join(cnf.Available, ", "))
				continue
			}
			return err
		}
		fmt.Fprintln(out)
		if err := analysis.Encode(out, res, format); err != nil {
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verLoad.register(verifyCmd, true)
	verifyCmd.Flags().StringSliceVar(&verCheckSort, "check-sort", nil, "comma-separated columns to check for sort order (repeatable)")
	verifyCmd.Flags().BoolVarP(&verInteractive, "interactive", "i", false, "after the report, prompt for columns to check until 'q'")
	verifyCmd.Flags().StringVarP(&verFormat, "format", "f", "", "report format: markdown|json|yaml (default from config)")
	verifyCmd.Flags().StringVarP(&verOutputPath, "output", "o", "", "optional path to write the report")
}
