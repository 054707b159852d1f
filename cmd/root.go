package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/visaprep-cli/internal/config"
	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	noLogFile bool
	noColor   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "visaprep",
	Short: "visaprep: clean visa application data into an ML-ready table",
	Long: `visaprep loads a raw visa applications table, cleans it, derives features,
validates the result and writes the processed table with a JSON report.
A separate remove-leakage run turns the processed table into the ML-ready table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (loadConfig reads rootCmd's flags).
	rootCmd.PersistentPreRunE = loadConfig
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./visaprep.yaml or ~/.visaprep/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noLogFile, "no-log-file", false, "log to the console only")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored console logs")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	if f := rootCmd.PersistentFlags(); f.Changed("log-level") && logLevel != "" {
		c.LogLevel = logLevel
	}
	if debug {
		c.LogLevel = "debug"
	}
	cfg = c
	return nil
}

// newLogger builds the run logger: console lines on stderr and, unless
// disabled, JSON lines in the configured log file.
func newLogger(cmd *cobra.Command, withFile bool) (zerolog.Logger, func() error, error) {
	opt := logging.Options{
		Level:   cfg.LogLevel,
		Console: cmd.ErrOrStderr(),
		NoColor: noColor,
	}
	if withFile && !noLogFile {
		opt.File = cfg.LogFile
	}
	return logging.New(opt)
}
