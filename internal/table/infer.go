package table

import (
	"strconv"
	"strings"
	"time"
)

var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NULL": {}, "null": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"1.#IND": {}, "-1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
}

// IsMissing reports whether a raw field denotes a missing value.
func IsMissing(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// ParseNumber parses a plain decimal number. Hex literals and Go digit
// separators are rejected even though strconv would accept them.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" || strings.ContainsAny(raw, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02T15:04:05",
	"2006/01/02", "01/02/2006", "1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"2006.01.02", "Jan 2, 2006", "January 2, 2006", "2 Jan 2006",
}

// ParseDate parses a calendar date or timestamp using the accepted layouts.
// Slash dates are month first.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Infer builds a column from raw fields. All-integer columns without missing
// values become Int, numeric columns Float, boolean literals Bool and
// everything else Text. A column with no values at all is an all-missing Float.
func Infer(name string, raw []string) *Column {
	n := len(raw)
	null := make([]bool, n)
	present := 0
	for i, v := range raw {
		if IsMissing(v) {
			null[i] = true
			continue
		}
		present++
	}
	if present == 0 {
		return &Column{Name: name, Kind: Float, Nums: make([]float64, n), Null: null}
	}

	if nums, ok := inferInts(raw, null); ok {
		kind := Int
		if present < n {
			kind = Float
		}
		return &Column{Name: name, Kind: kind, Nums: nums, Null: null}
	}
	if nums, ok := inferFloats(raw, null); ok {
		return &Column{Name: name, Kind: Float, Nums: nums, Null: null}
	}
	if present == n {
		if nums, ok := inferBools(raw); ok {
			return &Column{Name: name, Kind: Bool, Nums: nums, Null: null}
		}
	}
	strs := make([]string, n)
	for i, v := range raw {
		if !null[i] {
			strs[i] = v
		}
	}
	return &Column{Name: name, Kind: Text, Strs: strs, Null: null}
}

func inferInts(raw []string, null []bool) ([]float64, bool) {
	out := make([]float64, len(raw))
	for i, v := range raw {
		if null[i] {
			continue
		}
		x, ok := parseInt(v)
		if !ok {
			return nil, false
		}
		out[i] = float64(x)
	}
	return out, true
}

func inferFloats(raw []string, null []bool) ([]float64, bool) {
	out := make([]float64, len(raw))
	for i, v := range raw {
		if null[i] {
			continue
		}
		x, ok := ParseNumber(v)
		if !ok {
			return nil, false
		}
		out[i] = x
	}
	return out, true
}

func inferBools(raw []string) ([]float64, bool) {
	out := make([]float64, len(raw))
	for i, v := range raw {
		b, ok := parseBool(v)
		if !ok {
			return nil, false
		}
		if b {
			out[i] = 1
		}
	}
	return out, true
}
