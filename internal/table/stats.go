package table

import (
	"math"
	"sort"
)

// Quantile interpolates linearly between the closest ranks of sorted values.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	d := sorted[hi] - sorted[lo]
	// lerp from the nearer end, as numpy does
	if w >= 0.5 {
		return sorted[hi] - float64(d*(1-w))
	}
	return sorted[lo] + float64(d*w)
}

// Quartiles returns Q1 and Q3 of the non-missing values of c.
func Quartiles(c *Column) (q1, q3 float64, ok bool) {
	vals := c.Values()
	if len(vals) == 0 {
		return 0, 0, false
	}
	sort.Float64s(vals)
	return Quantile(vals, 0.25), Quantile(vals, 0.75), true
}

// Median returns the median of the non-missing values of c.
func Median(c *Column) (float64, bool) {
	vals := c.Values()
	if len(vals) == 0 {
		return 0, false
	}
	sort.Float64s(vals)
	return Quantile(vals, 0.5), true
}

// Mode returns the row index of the first occurrence of the most frequent
// non-missing value of c. Ties go to the value seen first.
func Mode(c *Column) (int, bool) {
	counts := map[string]int{}
	first := map[string]int{}
	var order []string
	for i := 0; i < c.Len(); i++ {
		if c.Null[i] {
			continue
		}
		k := c.Text(i)
		if _, ok := counts[k]; !ok {
			first[k] = i
			order = append(order, k)
		}
		counts[k]++
	}
	if len(order) == 0 {
		return 0, false
	}
	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return first[best], true
}

// Frequencies counts each non-missing value of c by its textual form.
func Frequencies(c *Column) map[string]int {
	out := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if !c.Null[i] {
			out[c.Text(i)]++
		}
	}
	return out
}
