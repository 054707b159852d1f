// Package pipeline runs the processing stages in order and writes the
// processed table and its validation report.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/visaprep-cli/internal/clean"
	"github.com/KaramelBytes/visaprep-cli/internal/columns"
	"github.com/KaramelBytes/visaprep-cli/internal/config"
	"github.com/KaramelBytes/visaprep-cli/internal/dataset"
	"github.com/KaramelBytes/visaprep-cli/internal/features"
	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/KaramelBytes/visaprep-cli/internal/utils"
	"github.com/KaramelBytes/visaprep-cli/internal/validate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Report is the JSON document written to the report file: the validation
// report plus run metadata.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	InputFile   string    `json:"input_file"`
	*validate.Report
}

// Result describes a completed run.
type Result struct {
	Report        *Report
	Quality       *dataset.QualityReport
	Cleaning      clean.Summary
	Features      []string
	InitialRows   int
	Rows          int
	Columns       int
	ProcessedPath string
	ReportPath    string
	Duration      time.Duration
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClassifier replaces the name-based column classifier.
func WithClassifier(c columns.Classifier) Option {
	return func(p *Pipeline) { p.cls = c }
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline is Loader, Cleaner, FeatureEngineer, Validator and export, in order.
type Pipeline struct {
	cfg    *config.Global
	logger zerolog.Logger
	cls    columns.Classifier
	now    func() time.Time
}

func New(cfg *config.Global, logger zerolog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.Component(logger, "pipeline"),
		cls:    columns.DefaultKeywords(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) cleanOptions() clean.Options {
	return clean.Options{
		SalaryMin:          p.cfg.SalaryMin,
		SalaryMax:          p.cfg.SalaryMax,
		IQRMultiplier:      p.cfg.IQRMultiplier,
		EducationDefault:   p.cfg.EducationDefault,
		CategoricalDefault: p.cfg.CategoricalDefault,
	}
}

// Run executes every stage. Any failure is logged with its stage and returned;
// files already written are left in place.
func (p *Pipeline) Run() (*Result, error) {
	start := p.now()
	p.logger.Info().Str("input", p.cfg.RawFile).Msg("starting data processing pipeline")

	p.logger.Info().Str("stage", "load").Msg("stage 1: load")
	loader := dataset.NewLoader(p.logger)
	raw, err := loader.Load(p.cfg.RawFile)
	if err != nil {
		return nil, p.fail("load", err)
	}
	quality := loader.AnalyzeQuality(raw)
	quality.Name = filepath.Base(p.cfg.RawFile)

	p.logger.Info().Str("stage", "clean").Msg("stage 2: clean")
	cleaner := clean.New(raw, p.cleanOptions(), p.cls, p.logger)
	cleaned := cleaner.Run()

	p.logger.Info().Str("stage", "features").Msg("stage 3: engineer features")
	eng := features.New(cleaned, features.Options{MaxFrequencyColumns: p.cfg.MaxFrequencyColumns}, p.cls, p.logger)
	engineered := eng.Run()

	p.logger.Info().Str("stage", "validate").Msg("stage 4: validate")
	vrep := validate.New(engineered, p.logger).Report()

	p.logger.Info().Str("stage", "export").Msg("stage 5: export")
	if err := dataset.Export(p.cfg.ProcessedFile, engineered); err != nil {
		return nil, p.fail("export", err)
	}
	p.logger.Info().Str("path", p.cfg.ProcessedFile).Int("rows", engineered.Len()).
		Int("columns", engineered.Width()).Msg("saved processed data")

	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: p.now().UTC(),
		InputFile:   p.cfg.RawFile,
		Report:      vrep,
	}
	b, err := utils.PrettyJSON(report)
	if err != nil {
		return nil, p.fail("report", err)
	}
	if err := utils.SafeWriteFile(p.cfg.ReportFile, b); err != nil {
		return nil, p.fail("report", err)
	}
	p.logger.Info().Str("path", p.cfg.ReportFile).Str("run_id", report.RunID).Msg("report saved")

	res := &Result{
		Report:        report,
		Quality:       quality,
		Cleaning:      cleaner.Summary(),
		Features:      eng.Added(),
		InitialRows:   raw.Len(),
		Rows:          engineered.Len(),
		Columns:       engineered.Width(),
		ProcessedPath: p.cfg.ProcessedFile,
		ReportPath:    p.cfg.ReportFile,
		Duration:      p.now().Sub(start),
	}
	p.logger.Info().Str("status", vrep.Status).Dur("took", res.Duration).Msg("pipeline completed")
	return res, nil
}

func (p *Pipeline) fail(stage string, err error) error {
	err = fmt.Errorf("%s: %w", stage, err)
	p.logger.Error().Err(err).Str("stage", stage).Msg("pipeline failed")
	return err
}
