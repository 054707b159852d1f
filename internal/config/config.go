package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Paths; empty values are derived from DataDir.
	DataDir       string `mapstructure:"data_dir" yaml:"data_dir"`
	RawFile       string `mapstructure:"raw_file" yaml:"raw_file"`
	ProcessedFile string `mapstructure:"processed_file" yaml:"processed_file"`
	MLReadyFile   string `mapstructure:"ml_ready_file" yaml:"ml_ready_file"`
	ReportFile    string `mapstructure:"report_file" yaml:"report_file"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`

	// Cleaning
	SalaryMin          float64 `mapstructure:"salary_min" yaml:"salary_min"`
	SalaryMax          float64 `mapstructure:"salary_max" yaml:"salary_max"`
	IQRMultiplier      float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`
	EducationDefault   string  `mapstructure:"education_default" yaml:"education_default"`
	CategoricalDefault string  `mapstructure:"categorical_default" yaml:"categorical_default"`

	// Features
	MaxFrequencyColumns int `mapstructure:"max_frequency_columns" yaml:"max_frequency_columns"`

	// Leakage removal
	TargetColumn   string   `mapstructure:"target_column" yaml:"target_column"`
	LeakageColumns []string `mapstructure:"leakage_columns" yaml:"leakage_columns"`
}

// DefaultLeakageColumns are the decision-time and identifier columns that must
// not reach model training.
var DefaultLeakageColumns = []string{
	"decision_date",
	"decision_date_year",
	"decision_date_month",
	"decision_date_day",
	"decision_date_dayofweek",
	"applicant_id",
	"applicant_id_frequency",
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.visaprep/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".visaprep")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VISAPREP")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "data")
	v.SetDefault("raw_file", "")
	v.SetDefault("processed_file", "")
	v.SetDefault("ml_ready_file", "")
	v.SetDefault("report_file", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("salary_min", 1000.0)
	v.SetDefault("salary_max", 1000000.0)
	v.SetDefault("iqr_multiplier", 1.5)
	v.SetDefault("education_default", "Bachelor's")
	v.SetDefault("categorical_default", "Unknown")
	v.SetDefault("max_frequency_columns", 3)
	v.SetDefault("target_column", "visa_status")
	v.SetDefault("leakage_columns", DefaultLeakageColumns)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("visaprep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".visaprep"))
		}
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.resolvePaths()
	return &c, nil
}

// resolvePaths fills empty file paths with the standard layout under DataDir.
func (c *Global) resolvePaths() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	def := func(p *string, parts ...string) {
		if *p == "" {
			*p = filepath.Join(append([]string{c.DataDir}, parts...)...)
		}
	}
	def(&c.RawFile, "raw", "visa_applications.csv")
	def(&c.ProcessedFile, "processed", "visa_applications_processed.csv")
	def(&c.MLReadyFile, "processed", "visa_applications_ml_ready.csv")
	def(&c.ReportFile, "reports", "processing_report.json")
	def(&c.LogFile, "reports", "processing.log")
}

// EnsureDirs creates the parent directory of every configured file.
func (c *Global) EnsureDirs() error {
	for _, p := range []string{c.RawFile, c.ProcessedFile, c.MLReadyFile, c.ReportFile, c.LogFile} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", filepath.Dir(p), err)
		}
	}
	return nil
}

// SetDataDir changes DataDir and moves every path still at its derived default
// under the new directory. Paths set explicitly are kept.
func (c *Global) SetDataDir(dir string) {
	defaults := Global{DataDir: c.DataDir}
	defaults.resolvePaths()
	keep := func(p *string, def string) {
		if *p == def {
			*p = ""
		}
	}
	keep(&c.RawFile, defaults.RawFile)
	keep(&c.ProcessedFile, defaults.ProcessedFile)
	keep(&c.MLReadyFile, defaults.MLReadyFile)
	keep(&c.ReportFile, defaults.ReportFile)
	keep(&c.LogFile, defaults.LogFile)
	c.DataDir = dir
	c.resolvePaths()
}
