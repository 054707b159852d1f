package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoColumns is returned when the input has no header row.
var ErrNoColumns = errors.New("no columns to parse from input")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes a delimited table with a header row and infers column kinds.
// Short rows are padded with missing values; long rows are an error. A leading
// UTF-8 byte order mark is skipped.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	br := bufio.NewReader(r)
	if b, _ := br.Peek(len(utf8BOM)); bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	if comma != 0 {
		cr.Comma = comma
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoColumns
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &csv.ParseError{StartLine: line, Line: line, Column: 1,
				Err: fmt.Errorf("expected %d fields, saw %d", len(header), len(rec))}
		}
		rows = append(rows, rec)
	}
	return FromRecords(header, rows)
}

// FromRecords builds a table from a header and raw string rows. Repeated
// header names get the first free ".N" suffix.
func FromRecords(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoColumns
	}
	names := uniqueNames(header)
	t := &Table{}
	for j, name := range names {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		if t.Index(name) >= 0 {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		if err := t.Add(Infer(name, raw)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func uniqueNames(header []string) []string {
	taken := make(map[string]bool, len(header))
	next := make(map[string]int)
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if taken[name] {
			base, n := name, next[name]
			for taken[name] {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
			}
			next[base] = n
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// WriteCSV encodes the table with a header row, comma separated.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	cols := t.Columns()
	rec := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			rec[j] = c.Text(i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
