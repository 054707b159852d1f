package table

import (
	"fmt"
	"strings"
)

// Table is an ordered set of equally long columns.
type Table struct {
	cols []*Column
}

// New assembles a table, checking that names are unique and lengths agree.
func New(cols ...*Column) (*Table, error) {
	t := &Table{}
	for _, c := range cols {
		if err := t.Add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.cols...)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	if i := t.Index(name); i >= 0 {
		return t.cols[i], true
	}
	return nil, false
}

// Add appends c, or replaces an existing column of the same name in place.
func (t *Table) Add(c *Column) error {
	if len(t.cols) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("column %q has %d rows, table has %d", c.Name, c.Len(), t.Len())
	}
	if i := t.Index(c.Name); i >= 0 {
		t.cols[i] = c
		return nil
	}
	t.cols = append(t.cols, c)
	return nil
}

// Drop removes the named column and reports whether it was present.
func (t *Table) Drop(name string) bool {
	i := t.Index(name)
	if i < 0 {
		return false
	}
	t.cols = append(t.cols[:i], t.cols[i+1:]...)
	return true
}

// Filter keeps the rows whose keep entry is true, across every column, and
// returns the number of rows removed.
func (t *Table) Filter(keep []bool) int {
	removed := 0
	for _, k := range keep {
		if !k {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	for _, c := range t.cols {
		c.filter(keep)
	}
	return removed
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{cols: make([]*Column, len(t.cols))}
	for i, c := range t.cols {
		out.cols[i] = c.Clone()
	}
	return out
}

// MissingCount returns the number of missing cells in the table.
func (t *Table) MissingCount() int {
	n := 0
	for _, c := range t.cols {
		n += c.NullCount()
	}
	return n
}

// rowKey renders row i so that two rows share a key only if every cell is
// identical, missing cells included.
func (t *Table) rowKey(i int) string {
	var b strings.Builder
	for j, c := range t.cols {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		if c.Null[i] {
			b.WriteByte(0x00)
			continue
		}
		b.WriteString(c.Text(i))
	}
	return b.String()
}

// DuplicateMask flags every row that repeats an earlier row exactly.
func (t *Table) DuplicateMask() []bool {
	n := t.Len()
	dup := make([]bool, n)
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := t.rowKey(i)
		if _, ok := seen[key]; ok {
			dup[i] = true
			continue
		}
		seen[key] = struct{}{}
	}
	return dup
}

// Duplicates counts rows that repeat an earlier row exactly.
func (t *Table) Duplicates() int {
	n := 0
	for _, d := range t.DuplicateMask() {
		if d {
			n++
		}
	}
	return n
}

// Schema returns the observed name to dtype mapping in column order.
func (t *Table) Schema() []Field {
	out := make([]Field, len(t.cols))
	for i, c := range t.cols {
		out[i] = Field{Name: c.Name, Dtype: c.Dtype()}
	}
	return out
}

// Field is one entry of a schema snapshot.
type Field struct {
	Name  string
	Dtype string
}
