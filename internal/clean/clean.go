// Package clean repairs a raw applications table: salary coercion, education
// consolidation, state names, imputation, duplicate and outlier removal.
package clean

import (
	"math"
	"strings"

	"github.com/KaramelBytes/visaprep-cli/internal/columns"
	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// Options holds the cleaning thresholds and fallback values.
type Options struct {
	SalaryMin          float64
	SalaryMax          float64
	IQRMultiplier      float64
	EducationDefault   string
	CategoricalDefault string
}

// DefaultOptions returns the thresholds used for the visa applications dataset.
func DefaultOptions() Options {
	return Options{
		SalaryMin:          1000,
		SalaryMax:          1000000,
		IQRMultiplier:      1.5,
		EducationDefault:   "Bachelor's",
		CategoricalDefault: "Unknown",
	}
}

// Summary counts what the cleaning steps changed.
type Summary struct {
	SalaryRejected    int `json:"salary_rejected"`
	Imputed           int `json:"imputed"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	OutliersRemoved   int `json:"outliers_removed"`
}

// Cleaner owns a private copy of the table and mutates it step by step.
// The steps are independent methods but assume the order used by Run.
type Cleaner struct {
	t       *table.Table
	opts    Options
	cls     columns.Classifier
	logger  zerolog.Logger
	summary Summary
}

// New copies t; the caller's table is never modified. A nil classifier uses
// columns.DefaultKeywords.
func New(t *table.Table, opts Options, cls columns.Classifier, logger zerolog.Logger) *Cleaner {
	if cls == nil {
		cls = columns.DefaultKeywords()
	}
	return &Cleaner{
		t:      t.Clone(),
		opts:   opts,
		cls:    cls,
		logger: logging.Component(logger, "cleaner"),
	}
}

// Run applies every step in order and returns the cleaned table.
func (c *Cleaner) Run() *table.Table {
	c.CleanSalary()
	c.CleanEducation()
	c.StandardizeStates()
	c.ImputeMissing()
	c.RemoveDuplicates()
	c.RemoveOutliers()
	return c.Table()
}

// Table returns a copy of the current state.
func (c *Cleaner) Table() *table.Table { return c.t.Clone() }

// Summary reports the counts accumulated so far.
func (c *Cleaner) Summary() Summary { return c.summary }

func (c *Cleaner) roles(role columns.Role) []string {
	return columns.Select(c.t.Names(), c.cls, role)
}

// replace swaps in a rebuilt column of the same name and length.
func (c *Cleaner) replace(col *table.Column) {
	if err := c.t.Add(col); err != nil {
		c.logger.Error().Err(err).Str("column", col.Name).Msg("replace column")
	}
}

// CleanSalary parses salary columns as decimals after stripping thousands
// separators. Unparseable and out-of-range values become missing.
func (c *Cleaner) CleanSalary() {
	c.logger.Info().Msg("cleaning salary columns")
	lo := decimal.NewFromFloat(c.opts.SalaryMin)
	hi := decimal.NewFromFloat(c.opts.SalaryMax)
	for _, name := range c.roles(columns.Salary) {
		col, _ := c.t.Column(name)
		vals := make([]float64, col.Len())
		rejected := 0
		for i := range vals {
			vals[i] = math.NaN()
			if col.IsNull(i) {
				continue
			}
			raw := strings.ReplaceAll(strings.TrimSpace(col.Text(i)), ",", "")
			d, err := decimal.NewFromString(raw)
			if err != nil {
				continue
			}
			if d.LessThan(lo) || d.GreaterThan(hi) {
				rejected++
				continue
			}
			vals[i] = d.InexactFloat64()
		}
		cleaned := table.FloatColumn(name, vals)
		c.replace(cleaned)
		c.summary.SalaryRejected += rejected
		if rejected > 0 {
			c.logger.Info().Str("column", name).Int("count", rejected).Msg("unrealistic salary values detected")
		}
		ev := c.logger.Info().Str("column", name)
		if kept := cleaned.Values(); len(kept) > 0 {
			ev = ev.Float64("min", floats.Min(kept)).Float64("max", floats.Max(kept))
		}
		ev.Msg("fixed salary column")
	}
}

// CleanEducation merges secondary education columns into the first one, then
// fills the remaining gaps with the column mode.
func (c *Cleaner) CleanEducation() {
	c.logger.Info().Msg("cleaning education columns")
	edu := c.roles(columns.Education)
	if len(edu) > 1 {
		c.logger.Info().Strs("columns", edu).Msg("multiple education columns found")
		primary, _ := c.t.Column(edu[0])
		for _, name := range edu[1:] {
			sec, _ := c.t.Column(name)
			for i := 0; i < primary.Len(); i++ {
				if primary.IsNull(i) && !sec.IsNull(i) {
					primary.CopyCell(i, sec, i)
				}
			}
			c.t.Drop(name)
		}
		c.logger.Info().Str("column", edu[0]).Msg("kept primary column")
		edu = edu[:1]
	}
	for _, name := range edu {
		col, _ := c.t.Column(name)
		if n := c.fillMode(col, c.opts.EducationDefault); n > 0 {
			c.logger.Info().Str("column", name).Int("count", n).Msg("filled missing education values with mode")
		}
	}
}

// StandardizeStates uppercases text state columns and expands two-letter
// abbreviations. Unknown values pass through.
func (c *Cleaner) StandardizeStates() {
	c.logger.Info().Msg("standardizing state names")
	for _, name := range c.roles(columns.State) {
		col, _ := c.t.Column(name)
		if col.Kind != table.Text {
			c.logger.Warn().Str("column", name).Str("kind", col.Kind.String()).Msg("state column is not text, skipped")
			continue
		}
		converted := 0
		for i, v := range col.Strs {
			if col.IsNull(i) {
				continue
			}
			v = strings.ToUpper(v)
			if full, ok := StateName(v); ok {
				v = full
				converted++
			}
			col.Strs[i] = v
		}
		c.logger.Info().Str("column", name).Int("converted", converted).Msg("converted state abbreviations")
	}
}

// ImputeMissing fills numeric gaps with the median and everything else with
// the mode. A numeric column with no values at all is filled with 0.
func (c *Cleaner) ImputeMissing() {
	c.logger.Info().Msg("handling missing values")
	for _, col := range c.t.Columns() {
		missing := col.NullCount()
		if missing == 0 {
			continue
		}
		if col.Kind.Numeric() {
			// a median need not be integral
			col.Kind = table.Float
			med, ok := table.Median(col)
			if !ok {
				med = 0
			}
			for i := 0; i < col.Len(); i++ {
				if col.IsNull(i) {
					col.SetFloat(i, med)
				}
			}
			c.logger.Info().Str("column", col.Name).Float64("median", med).Msg("filled with median")
		} else {
			c.fillMode(col, c.opts.CategoricalDefault)
			c.logger.Info().Str("column", col.Name).Msg("filled with mode")
		}
		c.summary.Imputed += missing
	}
	c.logger.Info().Int("remaining", c.t.MissingCount()).Msg("remaining missing values")
}

// fillMode fills the missing rows of col with its most frequent value, or with
// def when the column has none, and returns the number of rows filled.
func (c *Cleaner) fillMode(col *table.Column, def string) int {
	missing := col.NullCount()
	if missing == 0 {
		return 0
	}
	src, ok := table.Mode(col)
	if !ok {
		col.ToText()
		for i := 0; i < col.Len(); i++ {
			col.SetText(i, def)
		}
		return missing
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			col.CopyCell(i, col, src)
		}
	}
	return missing
}

// RemoveDuplicates drops rows identical to an earlier row, keeping the first.
func (c *Cleaner) RemoveDuplicates() {
	c.logger.Info().Msg("removing duplicates")
	dup := c.t.DuplicateMask()
	keep := make([]bool, len(dup))
	for i, d := range dup {
		keep[i] = !d
	}
	removed := c.t.Filter(keep)
	c.summary.DuplicatesRemoved += removed
	c.logger.Info().Int("removed", removed).Int("remaining", c.t.Len()).Msg("removed duplicate rows")
}

// RemoveOutliers applies IQR bounds column by column, left to right. Each
// column's bounds are computed on the rows that survived the previous columns,
// so the result depends on column order.
func (c *Cleaner) RemoveOutliers() {
	c.logger.Info().Msg("detecting and removing outliers")
	initial := c.t.Len()
	var numeric []string
	for _, col := range c.t.Columns() {
		if col.Kind.Numeric() {
			numeric = append(numeric, col.Name)
		}
	}
	k := c.opts.IQRMultiplier
	for _, name := range numeric {
		col, ok := c.t.Column(name)
		if !ok {
			continue
		}
		q1, q3, ok := table.Quartiles(col)
		if !ok {
			continue
		}
		iqr := q3 - q1
		lower, upper := q1-k*iqr, q3+k*iqr
		keep := make([]bool, col.Len())
		outliers := 0
		for i := range keep {
			v, ok := col.Float(i)
			switch {
			case !ok:
				// missing rows fail both comparisons and go with the outliers
			case v < lower || v > upper:
				outliers++
			default:
				keep[i] = true
			}
		}
		if outliers > 0 {
			c.logger.Info().Str("column", name).Int("count", outliers).
				Float64("lower", lower).Float64("upper", upper).Msg("found outliers")
			c.t.Filter(keep)
		}
	}
	removed := initial - c.t.Len()
	c.summary.OutliersRemoved += removed
	c.logger.Info().Int("removed", removed).Msg("removed rows with outliers")
}
