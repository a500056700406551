package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/dataverify/internal/analysis"
	"github.com/KaramelBytes/dataverify/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	vbLoad      loadFlags
	vbCheckSort []string
	vbFormat    string
	vbJobs      int
	vbQuiet     bool
	vbOutputDir string
)

var verifyBatchCmd = &cobra.Command{
	Use:   "verify-batch <files...>",
	Short: "Verify multiple CSV/TSV/XLSX/Parquet files in parallel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		format, err := outputFormat(vbFormat)
		if err != nil {
			return err
		}
		if vbJobs < 1 {
			return fmt.Errorf("--jobs must be >= 1")
		}
		// fail on bad flags before any file is read
		if _, err := vbLoad.options(cmd); err != nil {
			return err
		}

		svc := analysis.NewService(runLog)
		reports := make([][]byte, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(vbJobs)
		for i, path := range files {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				tbl, err := vbLoad.load(ctx, cmd, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				rep := svc.ProfileAll(tbl)
				if len(vbCheckSort) > 0 {
					res, err := svc.CheckColumns(tbl, vbCheckSort)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					rep.Sorting = res
				}
				var buf bytes.Buffer
				if err := analysis.Encode(&buf, rep, format); err != nil {
					return err
				}
				reports[i] = buf.Bytes()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if vbOutputDir != "" {
			if err := utils.EnsureDir(vbOutputDir); err != nil {
				return err
			}
		}
		total := len(files)
		written := make(map[string]bool, total)
		for i, path := range files {
			if !vbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if vbOutputDir != "" {
				dst := utils.ReportPath(vbOutputDir, path, utils.ExtFor(format))
				// same basename from another directory in this run; reports
				// left by earlier runs are overwritten
				stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				for n := i + 1; written[dst]; n++ {
					dst = filepath.Join(vbOutputDir, fmt.Sprintf("%s__%d.report.%s", stem, n, utils.ExtFor(format)))
				}
				written[dst] = true
				if err := utils.SafeWriteFile(dst, reports[i]); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				if !vbQuiet {
					fmt.Fprintf(out, "✓ Wrote report to %s\n", dst)
				}
				continue
			}
			fmt.Fprintln(out, strings.TrimRight(string(reports[i]), "\n"))
		}
		runLog.Info("batch verified", "files", total, "jobs", vbJobs)
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and returns the files sorted.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(verifyBatchCmd)
	vbLoad.register(verifyBatchCmd, false)
	verifyBatchCmd.Flags().StringSliceVar(&vbCheckSort, "check-sort", nil, "comma-separated columns to check for sort order in every file")
	verifyBatchCmd.Flags().StringVarP(&vbFormat, "format", "f", "", "report format: markdown|json|yaml (default from config)")
	verifyBatchCmd.Flags().IntVarP(&vbJobs, "jobs", "j", 4, "number of files verified in parallel")
	verifyBatchCmd.Flags().BoolVar(&vbQuiet, "quiet", false, "suppress progress and non-essential output")
	verifyBatchCmd.Flags().StringVar(&vbOutputDir, "output-dir", "", "write one report per file into this directory instead of stdout")
}
