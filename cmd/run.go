package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/visaprep-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	runInput  string
	runOutput string
	runReport string
)

var runPipelineCmd = &cobra.Command{
	Use:   "run",
	Short: "Load, clean, engineer features, validate and export the applications table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runInput != "" {
			cfg.RawFile = runInput
		}
		if runOutput != "" {
			cfg.ProcessedFile = runOutput
		}
		if runReport != "" {
			cfg.ReportFile = runReport
		}
		if err := cfg.EnsureDirs(); err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cmd, true)
		if err != nil {
			return err
		}
		defer closeLog()

		res, err := pipeline.New(cfg, logger).Run()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rule := strings.Repeat("=", 70)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "SUMMARY")
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "Processed dataset shape: (%d, %d)\n", res.Rows, res.Columns)
		fmt.Fprintf(out, "Rows removed: %d (duplicates %d, outliers %d)\n",
			res.InitialRows-res.Rows, res.Cleaning.DuplicatesRemoved, res.Cleaning.OutliersRemoved)
		fmt.Fprintf(out, "Features added: %d\n", len(res.Features))
		fmt.Fprintf(out, "Validation status: %s\n", res.Report.Status)
		fmt.Fprintf(out, "Output file: %s\n", res.ProcessedPath)
		fmt.Fprintf(out, "Report file: %s\n", res.ReportPath)
		fmt.Fprintln(out, rule)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runPipelineCmd)
	runPipelineCmd.Flags().StringVarP(&runInput, "input", "i", "", "raw applications table (overrides raw_file)")
	runPipelineCmd.Flags().StringVarP(&runOutput, "output", "o", "", "processed table path (overrides processed_file)")
	runPipelineCmd.Flags().StringVar(&runReport, "report", "", "report path (overrides report_file)")
}
