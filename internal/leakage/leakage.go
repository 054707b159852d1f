// Package leakage turns the processed table into the ML-ready table by
// dropping columns that are unknown at prediction time or identify a record.
package leakage

import (
	"fmt"

	"github.com/KaramelBytes/visaprep-cli/internal/config"
	"github.com/KaramelBytes/visaprep-cli/internal/dataset"
	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/rs/zerolog"
)

// Result describes a completed leakage removal run.
type Result struct {
	Table      *table.Table
	Removed    []string
	Features   []string
	Target     string
	HasTarget  bool
	InputPath  string
	OutputPath string
}

// Remover reloads the processed table from disk; it shares no state with the
// processing pipeline.
type Remover struct {
	cfg     *config.Global
	logger  zerolog.Logger
	columns []string
	target  string
}

// New uses cfg.LeakageColumns and cfg.TargetColumn, falling back to the
// defaults when they are empty.
func New(cfg *config.Global, logger zerolog.Logger) *Remover {
	cols := cfg.LeakageColumns
	if len(cols) == 0 {
		cols = config.DefaultLeakageColumns
	}
	target := cfg.TargetColumn
	if target == "" {
		target = "visa_status"
	}
	return &Remover{
		cfg:     cfg,
		logger:  logging.Component(logger, "leakage"),
		columns: cols,
		target:  target,
	}
}

// Run loads the processed table, removes leakage columns, splits features
// from the target and writes the ML-ready table.
func (r *Remover) Run() (*Result, error) {
	r.logger.Info().Str("input", r.cfg.ProcessedFile).Msg("loading processed data")
	t, err := dataset.NewLoader(r.logger).Load(r.cfg.ProcessedFile)
	if err != nil {
		return nil, r.fail("load", err)
	}

	t, removed := r.RemoveLeakage(t)
	features, target, ok := r.Split(t)

	if err := dataset.Export(r.cfg.MLReadyFile, t); err != nil {
		return nil, r.fail("export", err)
	}
	r.logger.Info().Str("path", r.cfg.MLReadyFile).Int("rows", t.Len()).Int("columns", t.Width()).
		Msg("saved ml-ready data")

	return &Result{
		Table:      t,
		Removed:    removed,
		Features:   features,
		Target:     target,
		HasTarget:  ok,
		InputPath:  r.cfg.ProcessedFile,
		OutputPath: r.cfg.MLReadyFile,
	}, nil
}

// RemoveLeakage returns a copy of t without the leakage columns and the names
// that were actually present. Absent columns are skipped.
func (r *Remover) RemoveLeakage(t *table.Table) (*table.Table, []string) {
	out := t.Clone()
	var removed []string
	for _, name := range r.columns {
		if out.Drop(name) {
			removed = append(removed, name)
			r.logger.Info().Str("column", name).Msg("removed leakage column")
		}
	}
	r.logger.Info().Int("count", len(removed)).Strs("removed", removed).Msg("leakage columns removed")
	return out, removed
}

// Split separates feature names from the target. ok is false when the table
// has no target column.
func (r *Remover) Split(t *table.Table) (features []string, target string, ok bool) {
	for _, c := range t.Columns() {
		if c.Name == r.target {
			target, ok = c.Name, true
			r.logger.Info().Str("column", c.Name).Msg("target")
			continue
		}
		features = append(features, c.Name)
		r.logger.Debug().Str("column", c.Name).Str("dtype", c.Dtype()).Msg("feature")
	}
	if !ok {
		r.logger.Warn().Str("target", r.target).Msg("target column not found")
	}
	r.logger.Info().Int("features", len(features)).Msg("final columns for training")
	return features, target, ok
}

func (r *Remover) fail(stage string, err error) error {
	err = fmt.Errorf("%s: %w", stage, err)
	r.logger.Error().Err(err).Str("stage", stage).Msg("leakage removal failed")
	return err
}
