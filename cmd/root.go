package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/dataverify/internal/config"
	"github.com/KaramelBytes/dataverify/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Logger for the current run, tagged with run_id
	runLog *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dataverify",
	Short: "dataverify: profile tabular datasets and check column ordering",
	Long: `dataverify loads a CSV/TSV, XLSX, Parquet file or SQL query result and reports,
per column, its type, null counts, uniqueness and range statistics. It can also check
whether key or timestamp columns are sorted and point at the first row that breaks the order.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRun,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataverify/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

// initRun loads configuration and sets up logging before any subcommand runs.
func initRun(cmd *cobra.Command, args []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level, format := cfg.LogLevel, cfg.LogFormat
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	if debug {
		level = "debug"
	}
	base := logging.Setup(level, format, cmd.ErrOrStderr())
	runLog = logging.WithRun(base, logging.NewRunID(), "command", cmd.Name())
	runLog.Debug("config loaded", "config", cfgFile, "output_format", cfg.OutputFormat)
	return nil
}
