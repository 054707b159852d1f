// Package features derives model inputs from a cleaned applications table.
package features

import (
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/visaprep-cli/internal/columns"
	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/rs/zerolog"
)

// Options bounds the number of derived columns.
type Options struct {
	MaxFrequencyColumns int
}

func DefaultOptions() Options {
	return Options{MaxFrequencyColumns: 3}
}

// Engineer appends derived columns to its own copy of a table. It never
// removes or reorders rows.
type Engineer struct {
	t      *table.Table
	opts   Options
	cls    columns.Classifier
	logger zerolog.Logger
	added  []string
}

// New copies t. A nil classifier uses columns.DefaultKeywords.
func New(t *table.Table, opts Options, cls columns.Classifier, logger zerolog.Logger) *Engineer {
	if cls == nil {
		cls = columns.DefaultKeywords()
	}
	return &Engineer{
		t:      t.Clone(),
		opts:   opts,
		cls:    cls,
		logger: logging.Component(logger, "features"),
	}
}

// Run applies date, ratio and frequency features in that order.
func (e *Engineer) Run() *table.Table {
	e.DateFeatures()
	e.RatioFeature()
	e.FrequencyFeatures()
	return e.Table()
}

// Table returns a copy of the current state.
func (e *Engineer) Table() *table.Table { return e.t.Clone() }

// Added lists the derived column names in creation order.
func (e *Engineer) Added() []string { return append([]string(nil), e.added...) }

func (e *Engineer) add(c *table.Column) {
	existed := e.t.Index(c.Name) >= 0
	if err := e.t.Add(c); err != nil {
		e.logger.Error().Err(err).Str("column", c.Name).Msg("add feature")
		return
	}
	if !existed {
		e.added = append(e.added, c.Name)
	}
}

// intColumn builds an Int column, or a Float one when some rows are missing,
// so that gaps render the way float columns do.
func intColumn(name string, vals []int64, null []bool) *table.Column {
	for _, missing := range null {
		if !missing {
			continue
		}
		f := make([]float64, len(vals))
		for i, v := range vals {
			f[i] = float64(v)
			if null[i] {
				f[i] = math.NaN()
			}
		}
		return table.FloatColumn(name, f)
	}
	return table.IntColumn(name, vals, nil)
}

// DayOfWeek numbers weekdays from Monday = 0 to Sunday = 6.
func DayOfWeek(t time.Time) int64 {
	return int64((int(t.Weekday()) + 6) % 7)
}

// DateFeatures parses every date column and appends its year, month, day and
// day-of-week. Unparseable values become missing, and so do their parts.
func (e *Engineer) DateFeatures() {
	e.logger.Info().Msg("engineering date features")
	for _, name := range columns.Select(e.t.Names(), e.cls, columns.Date) {
		col, _ := e.t.Column(name)
		parsed := toDate(col)
		e.add(parsed)

		n := parsed.Len()
		year, month, day, dow := make([]int64, n), make([]int64, n), make([]int64, n), make([]int64, n)
		for i, ts := range parsed.Times {
			if parsed.IsNull(i) {
				continue
			}
			year[i] = int64(ts.Year())
			month[i] = int64(ts.Month())
			day[i] = int64(ts.Day())
			dow[i] = DayOfWeek(ts)
		}
		e.add(intColumn(name+"_year", year, parsed.Null))
		e.add(intColumn(name+"_month", month, parsed.Null))
		e.add(intColumn(name+"_day", day, parsed.Null))
		e.add(intColumn(name+"_dayofweek", dow, parsed.Null))
		if bad := parsed.NullCount() - col.NullCount(); bad > 0 {
			e.logger.Warn().Str("column", name).Int("count", bad).Msg("unparseable dates set to missing")
		}
		e.logger.Info().Str("column", name).Msg("extracted date features")
	}
}

func toDate(col *table.Column) *table.Column {
	if col.Kind == table.Date {
		return col.Clone()
	}
	n := col.Len()
	times := make([]time.Time, n)
	null := make([]bool, n)
	for i := 0; i < n; i++ {
		if col.IsNull(i) {
			null[i] = true
			continue
		}
		ts, ok := table.ParseDate(col.Text(i))
		if !ok {
			null[i] = true
			continue
		}
		times[i] = ts
	}
	return table.DateColumn(col.Name, times, null)
}

// RatioFeature divides the first numeric column by the second plus one.
// Negative denominators are not guarded.
func (e *Engineer) RatioFeature() {
	e.logger.Info().Msg("engineering numeric features")
	var numeric []*table.Column
	for _, c := range e.t.Columns() {
		if c.Kind.Numeric() {
			numeric = append(numeric, c)
		}
	}
	if len(numeric) < 2 {
		e.logger.Info().Int("numeric_columns", len(numeric)).Msg("not enough numeric columns for ratio")
		return
	}
	a, b := numeric[0], numeric[1]
	vals := make([]float64, a.Len())
	for i := range vals {
		x, okx := a.Float(i)
		y, oky := b.Float(i)
		if !okx || !oky {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = x / (y + 1)
	}
	name := fmt.Sprintf("%s_to_%s_ratio", a.Name, b.Name)
	e.add(table.FloatColumn(name, vals))
	e.logger.Info().Str("column", name).Msg("created ratio feature")
}

// FrequencyFeatures encodes the first text columns by how often each value
// occurs in its column.
func (e *Engineer) FrequencyFeatures() {
	e.logger.Info().Msg("engineering categorical features")
	var text []*table.Column
	for _, c := range e.t.Columns() {
		if c.Kind == table.Text {
			text = append(text, c)
		}
	}
	if limit := max(e.opts.MaxFrequencyColumns, 0); len(text) > limit {
		text = text[:limit]
	}
	for _, c := range text {
		freq := table.Frequencies(c)
		counts := make([]int64, c.Len())
		null := make([]bool, c.Len())
		for i := range counts {
			if c.IsNull(i) {
				null[i] = true
				continue
			}
			counts[i] = int64(freq[c.Text(i)])
		}
		e.add(intColumn(c.Name+"_frequency", counts, null))
		e.logger.Info().Str("column", c.Name).Int("distinct", len(freq)).Msg("created frequency encoding")
	}
}
