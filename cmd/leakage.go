package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/visaprep-cli/internal/leakage"
	"github.com/spf13/cobra"
)

var (
	leakInput  string
	leakOutput string
)

var removeLeakageCmd = &cobra.Command{
	Use:   "remove-leakage",
	Short: "Drop decision-time and identifier columns from the processed table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if leakInput != "" {
			cfg.ProcessedFile = leakInput
		}
		if leakOutput != "" {
			cfg.MLReadyFile = leakOutput
		}
		if err := cfg.EnsureDirs(); err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cmd, true)
		if err != nil {
			return err
		}
		defer closeLog()

		res, err := leakage.New(cfg, logger).Run()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rule := strings.Repeat("=", 70)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "SUMMARY")
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "ML-Ready dataset shape: (%d, %d)\n", res.Table.Len(), res.Table.Width())
		if len(res.Removed) > 0 {
			fmt.Fprintf(out, "Removed columns: %s\n", strings.Join(res.Removed, ", "))
		} else {
			fmt.Fprintln(out, "Removed columns: none")
		}
		fmt.Fprintf(out, "Features: %d\n", len(res.Features))
		if res.HasTarget {
			fmt.Fprintf(out, "Target: %s\n", res.Target)
		} else {
			fmt.Fprintln(out, "Target: not found")
		}
		fmt.Fprintf(out, "Output file: %s\n", res.OutputPath)
		fmt.Fprintln(out, rule)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeLeakageCmd)
	removeLeakageCmd.Flags().StringVarP(&leakInput, "input", "i", "", "processed table path (overrides processed_file)")
	removeLeakageCmd.Flags().StringVarP(&leakOutput, "output", "o", "", "ML-ready table path (overrides ml_ready_file)")
}
