package cmd

import (
	"github.com/KaramelBytes/dataverify/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	scLoad   loadFlags
	scFormat string
)

var sortCheckCmd = &cobra.Command{
	Use:   "sort-check <file> <column>",
	Short: "Check whether one column is sorted and report the first break-point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(scFormat)
		if err != nil {
			return err
		}
		tbl, err := scLoad.load(cmd.Context(), cmd, args[0])
		if err != nil {
			return err
		}
		res, err := analysis.NewService(runLog).CheckSorting(tbl, args[1])
		if err != nil {
			return err
		}
		return analysis.Encode(cmd.OutOrStdout(), res, format)
	},
}

func init() {
	rootCmd.AddCommand(sortCheckCmd)
	scLoad.register(sortCheckCmd, true)
	sortCheckCmd.Flags().StringVarP(&scFormat, "format", "f", "", "output format: markdown|json|yaml (default from config)")
}
