package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// QualityReport describes a raw table without modifying it.
type QualityReport struct {
	Name          string          `json:"name,omitempty"`
	TotalRows     int             `json:"total_rows"`
	TotalColumns  int             `json:"total_columns"`
	TotalMissing  int             `json:"total_missing"`
	DuplicateRows int             `json:"duplicate_rows"`
	Columns       []ColumnQuality `json:"columns"`
}

// ColumnQuality captures missingness, dtype and light statistics per column.
type ColumnQuality struct {
	Name       string  `json:"name"`
	Dtype      string  `json:"dtype"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
	Unique     int     `json:"unique"`
	// Numeric stats
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	// Categorical top values
	TopValues []CategoryCount `json:"top_values,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AnalyzeQuality computes missing counts, dtypes and duplicate rows of t.
func (l *Loader) AnalyzeQuality(t *table.Table) *QualityReport {
	l.logger.Info().Msg("analyzing data quality")
	rep := Analyze(t)
	for _, c := range rep.Columns {
		if c.Missing > 0 {
			l.logger.Info().Str("column", c.Name).Int("missing", c.Missing).
				Str("pct", fmt.Sprintf("%.2f%%", c.MissingPct)).Msg("missing values")
		}
	}
	l.logger.Info().Int("total_missing", rep.TotalMissing).Msg("missing values total")
	for _, c := range rep.Columns {
		l.logger.Debug().Str("column", c.Name).Str("dtype", c.Dtype).Msg("data type")
	}
	l.logger.Info().Int("duplicate_rows", rep.DuplicateRows).Msg("duplicate rows")
	return rep
}

// Analyze is AnalyzeQuality without logging.
func Analyze(t *table.Table) *QualityReport {
	rep := &QualityReport{
		TotalRows:     t.Len(),
		TotalColumns:  t.Width(),
		DuplicateRows: t.Duplicates(),
	}
	for _, c := range t.Columns() {
		q := ColumnQuality{Name: c.Name, Dtype: c.Dtype(), Missing: c.NullCount()}
		if rep.TotalRows > 0 {
			q.MissingPct = float64(q.Missing) * 100 / float64(rep.TotalRows)
		}
		freq := table.Frequencies(c)
		q.Unique = len(freq)
		switch {
		case c.Kind.Numeric():
			if vals := c.Values(); len(vals) > 0 {
				q.Min = floats.Min(vals)
				q.Max = floats.Max(vals)
				if len(vals) > 1 {
					q.Mean, q.Std = stat.MeanStdDev(vals, nil)
				} else {
					q.Mean = vals[0]
				}
			}
		case c.Kind == table.Text:
			q.TopValues = topValues(freq, 8)
		}
		rep.TotalMissing += q.Missing
		rep.Columns = append(rep.Columns, q)
	}
	return rep
}

func topValues(freq map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(freq))
	for k, v := range freq {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

// Markdown renders a compact summary of the report.
func (r *QualityReport) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.TotalRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", r.TotalColumns))
	b.WriteString(fmt.Sprintf("Missing values: %d\n", r.TotalMissing))
	b.WriteString(fmt.Sprintf("Duplicate rows: %d\n\n", r.DuplicateRows))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Columns {
		b.WriteString(fmt.Sprintf("- %s: %s (missing %d, %.1f%%)", safeName(c.Name), c.Dtype, c.Missing, c.MissingPct))
		switch {
		case c.Dtype == "int64" || c.Dtype == "float64":
			if c.Missing < r.TotalRows {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
		case len(c.TopValues) > 0:
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	var missing []ColumnQuality
	for _, c := range r.Columns {
		if c.Missing > 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		b.WriteString("\n[MISSING VALUES]\n")
		for _, c := range missing {
			b.WriteString(fmt.Sprintf("- %s: %d (%.2f%%)\n", safeName(c.Name), c.Missing, c.MissingPct))
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
