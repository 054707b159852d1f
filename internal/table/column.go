package table

import (
	"math"
	"strconv"
	"time"
)

// Kind is the semantic type held by a column.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Bool
	Date
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Date:
		return "date"
	default:
		return "text"
	}
}

// Numeric reports whether the kind takes part in numeric statistics.
// Booleans are deliberately excluded.
func (k Kind) Numeric() bool { return k == Int || k == Float }

// Column is a named, uniformly typed vector with a per-row null mask.
// Exactly one of Nums, Strs or Times is populated, depending on Kind:
// Int, Float and Bool use Nums (Bool as 0/1), Text uses Strs and Date uses Times.
type Column struct {
	Name  string
	Kind  Kind
	Nums  []float64
	Strs  []string
	Times []time.Time
	Null  []bool
}

// TextColumn builds a Text column. A nil null mask means no missing values.
func TextColumn(name string, vals []string, null []bool) *Column {
	return &Column{Name: name, Kind: Text, Strs: vals, Null: mask(null, len(vals))}
}

// FloatColumn builds a Float column; NaN entries are treated as missing.
func FloatColumn(name string, vals []float64) *Column {
	null := make([]bool, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			null[i] = true
		}
	}
	return &Column{Name: name, Kind: Float, Nums: vals, Null: null}
}

// IntColumn builds an Int column. A nil null mask means no missing values.
func IntColumn(name string, vals []int64, null []bool) *Column {
	nums := make([]float64, len(vals))
	for i, v := range vals {
		nums[i] = float64(v)
	}
	return &Column{Name: name, Kind: Int, Nums: nums, Null: mask(null, len(vals))}
}

// DateColumn builds a Date column. A nil null mask means no missing values.
func DateColumn(name string, vals []time.Time, null []bool) *Column {
	return &Column{Name: name, Kind: Date, Times: vals, Null: mask(null, len(vals))}
}

func mask(null []bool, n int) []bool {
	if null != nil {
		return null
	}
	return make([]bool, n)
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.Null) }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return c.Null[i] }

// NullCount returns the number of missing rows.
func (c *Column) NullCount() int {
	n := 0
	for _, b := range c.Null {
		if b {
			n++
		}
	}
	return n
}

// Float returns the numeric value of row i. ok is false for missing rows and
// for Text and Date columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.Null[i] || c.Nums == nil {
		return 0, false
	}
	return c.Nums[i], true
}

// Values returns the non-missing numeric values in row order.
func (c *Column) Values() []float64 {
	if c.Nums == nil {
		return nil
	}
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if !c.Null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Text returns the textual form of row i as it is written to CSV.
// Missing rows render as the empty string.
func (c *Column) Text(i int) string {
	if c.Null[i] {
		return ""
	}
	switch c.Kind {
	case Text:
		return c.Strs[i]
	case Int:
		return strconv.FormatInt(int64(c.Nums[i]), 10)
	case Float:
		return FormatFloat(c.Nums[i])
	case Bool:
		if c.Nums[i] != 0 {
			return "True"
		}
		return "False"
	case Date:
		t := c.Times[i]
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format("2006-01-02 15:04:05")
	}
	return ""
}

// Dtype returns the observed dtype name used in schema snapshots.
func (c *Column) Dtype() string {
	switch c.Kind {
	case Int:
		if c.NullCount() > 0 {
			return "float64"
		}
		return "int64"
	case Float:
		return "float64"
	case Bool:
		return "bool"
	case Date:
		return "datetime64[ns]"
	default:
		return "object"
	}
}

// SetNull marks row i as missing.
func (c *Column) SetNull(i int) { c.Null[i] = true }

// SetFloat stores a numeric value at row i. NaN stores a missing value.
func (c *Column) SetFloat(i int, v float64) {
	if math.IsNaN(v) {
		c.Null[i] = true
		return
	}
	c.Nums[i] = v
	c.Null[i] = false
}

// SetText stores a string at row i of a Text column.
func (c *Column) SetText(i int, s string) {
	c.Strs[i] = s
	c.Null[i] = false
}

// CopyCell copies row j of src into row i of c. Columns of different kinds
// are reconciled by converting c to Text first.
func (c *Column) CopyCell(i int, src *Column, j int) {
	if src.Null[j] {
		c.Null[i] = true
		return
	}
	if c.Kind != src.Kind {
		c.ToText()
		c.SetText(i, src.Text(j))
		return
	}
	switch c.Kind {
	case Text:
		c.Strs[i] = src.Strs[j]
	case Date:
		c.Times[i] = src.Times[j]
	default:
		c.Nums[i] = src.Nums[j]
	}
	c.Null[i] = false
}

// ToText converts the column to Text in place, keeping its null mask.
func (c *Column) ToText() {
	if c.Kind == Text {
		return
	}
	strs := make([]string, c.Len())
	for i := range strs {
		strs[i] = c.Text(i)
	}
	c.Kind = Text
	c.Strs = strs
	c.Nums = nil
	c.Times = nil
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	out.Null = append([]bool(nil), c.Null...)
	if c.Nums != nil {
		out.Nums = append([]float64(nil), c.Nums...)
	}
	if c.Strs != nil {
		out.Strs = append([]string(nil), c.Strs...)
	}
	if c.Times != nil {
		out.Times = append([]time.Time(nil), c.Times...)
	}
	return out
}

func (c *Column) filter(keep []bool) {
	n := 0
	for i, k := range keep {
		if !k {
			continue
		}
		c.Null[n] = c.Null[i]
		if c.Nums != nil {
			c.Nums[n] = c.Nums[i]
		}
		if c.Strs != nil {
			c.Strs[n] = c.Strs[i]
		}
		if c.Times != nil {
			c.Times[n] = c.Times[i]
		}
		n++
	}
	c.Null = c.Null[:n]
	if c.Nums != nil {
		c.Nums = c.Nums[:n]
	}
	if c.Strs != nil {
		c.Strs = c.Strs[:n]
	}
	if c.Times != nil {
		c.Times = c.Times[:n]
	}
}

// FormatFloat renders a float the way the processed CSV stores it: integral
// values keep a trailing ".0", others use the shortest round-trip form.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
