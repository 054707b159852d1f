// Package validate re-checks a processed table and summarizes it as a report.
package validate

import (
	"bytes"
	"encoding/json"

	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/rs/zerolog"
)

const (
	StatusPassed = "PASSED"
	StatusFailed = "FAILED"
)

// Schema is the observed column name to dtype mapping, in column order.
type Schema []table.Field

// MarshalJSON writes the schema as a JSON object whose keys keep column order.
func (s Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Dtype)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Lookup returns the dtype recorded for name.
func (s Schema) Lookup(name string) (string, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Dtype, true
		}
	}
	return "", false
}

// Report is the validation summary written next to the processed table.
type Report struct {
	TotalRows     int    `json:"total_rows"`
	TotalColumns  int    `json:"total_columns"`
	MissingValues int    `json:"missing_values"`
	DuplicateRows int    `json:"duplicate_rows"`
	Schema        Schema `json:"schema"`
	Status        string `json:"status"`
}

// Passed reports whether the table was complete.
func (r *Report) Passed() bool { return r.Status == StatusPassed }

// Validator inspects a table without changing it.
type Validator struct {
	t      *table.Table
	logger zerolog.Logger
}

func New(t *table.Table, logger zerolog.Logger) *Validator {
	return &Validator{t: t, logger: logging.Component(logger, "validator")}
}

// ValidateCompleteness reports whether no cell is missing.
func (v *Validator) ValidateCompleteness() bool {
	missing := v.t.MissingCount()
	if missing > 0 {
		v.logger.Warn().Int("missing", missing).Msg("missing values remain")
		return false
	}
	v.logger.Info().Msg("completeness check passed")
	return true
}

// ValidateConsistency reports whether no row repeats an earlier one.
func (v *Validator) ValidateConsistency() bool {
	dups := v.t.Duplicates()
	if dups > 0 {
		v.logger.Warn().Int("duplicates", dups).Msg("duplicate rows found")
		return false
	}
	v.logger.Info().Msg("consistency check passed")
	return true
}

// ValidateSchema snapshots the current dtypes.
func (v *Validator) ValidateSchema() Schema {
	schema := Schema(v.t.Schema())
	for _, f := range schema {
		v.logger.Debug().Str("column", f.Name).Str("dtype", f.Dtype).Msg("schema")
	}
	v.logger.Info().Int("columns", len(schema)).Msg("schema captured")
	return schema
}

// Report runs every check. Status depends on completeness only; duplicate
// rows are counted but do not fail the report.
func (v *Validator) Report() *Report {
	v.logger.Info().Msg("validating data")
	complete := v.ValidateCompleteness()
	v.ValidateConsistency()
	rep := &Report{
		TotalRows:     v.t.Len(),
		TotalColumns:  v.t.Width(),
		MissingValues: v.t.MissingCount(),
		DuplicateRows: v.t.Duplicates(),
		Schema:        v.ValidateSchema(),
		Status:        StatusFailed,
	}
	if complete {
		rep.Status = StatusPassed
	}
	v.logger.Info().Str("status", rep.Status).Int("rows", rep.TotalRows).Int("columns", rep.TotalColumns).Msg("validation report")
	return rep
}
