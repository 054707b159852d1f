package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/visaprep-cli/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set visaprep configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "raw_file: %s\n", cfg.RawFile)
		fmt.Fprintf(out, "processed_file: %s\n", cfg.ProcessedFile)
		fmt.Fprintf(out, "ml_ready_file: %s\n", cfg.MLReadyFile)
		fmt.Fprintf(out, "report_file: %s\n", cfg.ReportFile)
		fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "salary_min: %g\n", cfg.SalaryMin)
		fmt.Fprintf(out, "salary_max: %g\n", cfg.SalaryMax)
		fmt.Fprintf(out, "iqr_multiplier: %g\n", cfg.IQRMultiplier)
		fmt.Fprintf(out, "education_default: %s\n", cfg.EducationDefault)
		fmt.Fprintf(out, "categorical_default: %s\n", cfg.CategoricalDefault)
		fmt.Fprintf(out, "max_frequency_columns: %d\n", cfg.MaxFrequencyColumns)
		fmt.Fprintf(out, "target_column: %s\n", cfg.TargetColumn)
		fmt.Fprintf(out, "leakage_columns: %s\n", strings.Join(cfg.LeakageColumns, ","))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		switch key {
		case "data_dir":
			cfg.SetDataDir(val)
		case "raw_file":
			cfg.RawFile = val
		case "processed_file":
			cfg.ProcessedFile = val
		case "ml_ready_file":
			cfg.MLReadyFile = val
		case "report_file":
			cfg.ReportFile = val
		case "log_file":
			cfg.LogFile = val
		case "log_level":
			if _, err := zerolog.ParseLevel(strings.ToLower(val)); err != nil {
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
			cfg.LogLevel = strings.ToLower(val)
		case "salary_min", "salary_max", "iqr_multiplier":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			switch key {
			case "salary_min":
				cfg.SalaryMin = f
			case "salary_max":
				cfg.SalaryMax = f
			default:
				cfg.IQRMultiplier = f
			}
		case "education_default":
			cfg.EducationDefault = val
		case "categorical_default":
			cfg.CategoricalDefault = val
		case "max_frequency_columns":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_frequency_columns: %v", val)
			}
			cfg.MaxFrequencyColumns = i
		case "target_column":
			cfg.TargetColumn = val
		case "leakage_columns":
			var cols []string
			for _, c := range strings.Split(val, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cols = append(cols, c)
				}
			}
			cfg.LeakageColumns = cols
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if cfg.SalaryMin > cfg.SalaryMax {
			return fmt.Errorf("salary_min (%g) exceeds salary_max (%g)", cfg.SalaryMin, cfg.SalaryMax)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
