package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/dataverify/internal/analysis"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var (
	wLoad      loadFlags
	wCheckSort []string
	wFormat    string
	wDebounce  time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-verify a dataset every time the file is written",
	Long: `Verify a dataset once, then keep watching the file and print a fresh report
after each write. Bursts of writes are collapsed by --debounce. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(wFormat)
		if err != nil {
			return err
		}
		if _, err := wLoad.options(cmd); err != nil {
			return err
		}
		debounce := wDebounce
		if !cmd.Flags().Changed("debounce") {
			debounce = time.Duration(cfg.WatchDebounceMs) * time.Millisecond
		}
		path := args[0]
		out := cmd.OutOrStdout()
		svc := analysis.NewService(runLog)
		run := func() {
			if err := verifyOnce(cmd, svc, out, path, format); err != nil {
				// keep watching; the next write may fix the file
				fmt.Fprintf(out, "✗ Error: %v\n", err)
			}
		}
		err = watchFile(cmd.Context(), path, debounce, runLog, run)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func verifyOnce(cmd *cobra.Command, svc *analysis.Service, out io.Writer, path, format string) error {
	tbl, err := wLoad.load(cmd.Context(), cmd, path)
	if err != nil {
		return err
	}
	rep := svc.ProfileAll(tbl)
	if len(wCheckSort) > 0 {
		res, err := svc.CheckColumns(tbl, wCheckSort)
		if err != nil {
			return err
		}
		rep.Sorting = res
	}
	fmt.Fprintf(out, "\n=== %s (%s) ===\n", filepath.Base(path), time.Now().Format(time.TimeOnly))
	var b strings.Builder
	if err := analysis.Encode(&b, rep, format); err != nil {
		return err
	}
	fmt.Fprintln(out, strings.TrimRight(b.String(), "\n"))
	return nil
}

// watchFile calls fn once, then again after each write to path settles for
// debounce. It blocks until ctx is done. fn runs on the calling goroutine.
func watchFile(ctx context.Context, path string, debounce time.Duration, log *slog.Logger, fn func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}
	log.Info("watching", "path", absPath, "debounce", debounce)
	fn()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if p, _ := filepath.Abs(event.Name); p != absPath {
				continue
			}
			log.Debug("file changed", "path", absPath, "op", event.Op.String())
			timer.Reset(debounce)
		case <-timer.C:
			fn()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	wLoad.register(watchCmd, false)
	watchCmd.Flags().StringSliceVar(&wCheckSort, "check-sort", nil, "comma-separated columns to check for sort order on every run")
	watchCmd.Flags().StringVarP(&wFormat, "format", "f", "", "report format: markdown|json|yaml (default from config)")
	watchCmd.Flags().DurationVar(&wDebounce, "debounce", 300*time.Millisecond, "quiet period after a write before re-verifying (default from config)")
}
