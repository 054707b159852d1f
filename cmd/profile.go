package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/visaprep-cli/internal/dataset"
	"github.com/KaramelBytes/visaprep-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	profOutputPath string
	profFormat     string
	profSheetName  string
	profQuiet      bool
)

var profileCmd = &cobra.Command{
	Use:   "profile <files...>",
	Short: "Report missing values, dtypes and duplicates of CSV/TSV/XLSX tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(profFormat))
		switch format {
		case "", "md", "markdown":
			format = "md"
		case "json":
		default:
			return fmt.Errorf("unsupported --format: %s (use md|json)", profFormat)
		}

		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// keep literal paths so a missing file is reported by the loader
				matches = []string{arg}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		sort.Strings(files)

		logger, closeLog, err := newLogger(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()
		loader := dataset.NewLoader(logger)

		var reports []*dataset.QualityReport
		var md strings.Builder
		out := cmd.OutOrStdout()
		for i, path := range files {
			if !profQuiet && len(files) > 1 {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, len(files), filepath.Base(path))
			}
			t, err := loader.LoadSheet(path, profSheetName)
			if err != nil {
				return err
			}
			rep := loader.AnalyzeQuality(t)
			rep.Name = filepath.Base(path)
			reports = append(reports, rep)
			if i > 0 {
				md.WriteString("\n")
			}
			md.WriteString(rep.Markdown())
		}

		var body []byte
		if format == "json" {
			var v any = reports
			if len(reports) == 1 {
				v = reports[0]
			}
			b, err := utils.PrettyJSON(v)
			if err != nil {
				return err
			}
			body = append(b, '\n')
		} else {
			body = []byte(md.String())
		}

		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		_, err = out.Write(body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the profile")
	profileCmd.Flags().StringVar(&profFormat, "format", "md", "output format: md|json")
	profileCmd.Flags().StringVar(&profSheetName, "sheet-name", "", "XLSX: sheet name to profile (default first sheet)")
	profileCmd.Flags().BoolVarP(&profQuiet, "quiet", "q", false, "suppress progress lines")
}
