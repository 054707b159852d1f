package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const applicationsCSV = `applicant_id,income,state,education,application_date,approved
1,"1,09,600.00",ca,Master's,2024-01-15,True
2,85000,NY,,2024-02-01,False
3,,tx,Bachelor's,2024-02-03,True
`

func TestReadCSVInfersKinds(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(applicationsCSV), ',')
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"applicant_id", "income", "state", "education", "application_date", "approved"}, tbl.Names())

	want := map[string]Kind{
		"applicant_id":     Int,
		"income":           Text,
		"state":            Text,
		"education":        Text,
		"application_date": Text,
		"approved":         Bool,
	}
	for name, kind := range want {
		c, ok := tbl.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, kind, c.Kind, name)
	}

	edu, _ := tbl.Column("education")
	assert.True(t, edu.IsNull(1))
	assert.Equal(t, 2, tbl.MissingCount())
}

func TestReadCSVNumericWithMissingIsFloat(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n1,x\nNA,y\n3,\n"), ',')
	require.NoError(t, err)
	a, _ := tbl.Column("a")
	assert.Equal(t, Float, a.Kind)
	assert.Equal(t, "float64", a.Dtype())
	assert.Equal(t, []float64{1, 3}, a.Values())

	b, _ := tbl.Column("b")
	assert.Equal(t, "object", b.Dtype())
	assert.Equal(t, 1, b.NullCount())
}

func TestReadCSVAllMissingColumnIsFloat(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n1,\n2,\n"), ',')
	require.NoError(t, err)
	b, _ := tbl.Column("b")
	assert.Equal(t, Float, b.Kind)
	assert.Equal(t, 2, b.NullCount())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), ',')
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"), ',')
	var pe *csv.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)

	_, err = ReadCSV(strings.NewReader("a,b\n\"1,2\n"), ',')
	assert.Error(t, err)
}

func TestReadCSVPadsShortRowsAndRenamesDuplicates(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,a,b\n1,2\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "b"}, tbl.Names())
	b, _ := tbl.Column("b")
	assert.True(t, b.IsNull(0))
}

func TestReadCSVDuplicateSuffixSkipsExistingNames(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,a.1,a,a\n1,2,3,4\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "a.2", "a.3"}, tbl.Names())
	for name, want := range map[string]string{"a": "1", "a.1": "2", "a.2": "3", "a.3": "4"} {
		c, ok := tbl.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, want, c.Text(0), name)
	}
}

func TestReadCSVSkipsByteOrderMark(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\ufeffapplicant_id,visa_status\nA1,Approved\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"applicant_id", "visa_status"}, tbl.Names())
	assert.Equal(t, 0, tbl.Index("applicant_id"))

	tbl, err = ReadCSV(strings.NewReader("\ufeff\"applicant_id\",visa_status\nA1,Approved\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Index("applicant_id"))
}

func TestWriteCSVFormatting(t *testing.T) {
	tbl, err := New(
		IntColumn("id", []int64{1, 2}, nil),
		FloatColumn("income", []float64{109600, math.NaN()}),
		FloatColumn("ratio", []float64{0.5, math.Inf(1)}),
		TextColumn("state", []string{"CALIFORNIA", ""}, []bool{false, true}),
		DateColumn("d", []time.Time{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), {}}, []bool{false, true}),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "id,income,ratio,state,d\n1,109600.0,0.5,CALIFORNIA,2024-01-15\n2,,inf,,\n", buf.String())

	back, err := ReadCSV(&buf, ',')
	require.NoError(t, err)
	inc, _ := back.Column("income")
	assert.Equal(t, Float, inc.Kind)
	assert.Equal(t, []float64{109600}, inc.Values())
}

func TestFilterKeepsRowsAligned(t *testing.T) {
	tbl, err := New(
		IntColumn("id", []int64{1, 2, 3}, nil),
		TextColumn("s", []string{"a", "b", "c"}, nil),
	)
	require.NoError(t, err)

	removed := tbl.Filter([]bool{true, false, true})
	assert.Equal(t, 1, removed)
	for _, c := range tbl.Columns() {
		assert.Equal(t, 2, c.Len(), c.Name)
	}
	s, _ := tbl.Column("s")
	assert.Equal(t, []string{"a", "c"}, s.Strs)
}

func TestCloneIsIndependent(t *testing.T) {
	tbl, err := New(TextColumn("s", []string{"a", "b"}, nil))
	require.NoError(t, err)
	cp := tbl.Clone()
	c, _ := cp.Column("s")
	c.SetText(0, "z")
	cp.Drop("s")

	orig, ok := tbl.Column("s")
	require.True(t, ok)
	assert.Equal(t, "a", orig.Strs[0])
}

func TestAddRejectsMisalignedColumn(t *testing.T) {
	tbl, err := New(TextColumn("s", []string{"a", "b"}, nil))
	require.NoError(t, err)
	assert.Error(t, tbl.Add(TextColumn("t", []string{"a"}, nil)))
}

func TestDuplicates(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("a,b\n1,x\n1,x\n1,\n1,\n2,x\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true, false}, tbl.DuplicateMask())
	assert.Equal(t, 2, tbl.Duplicates())
}

func TestQuantileLinearInterpolation(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(vals, 0.25), 1e-12)
	assert.InDelta(t, 3.25, Quantile(vals, 0.75), 1e-12)
	assert.InDelta(t, 2.5, Quantile(vals, 0.5), 1e-12)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))

	// interpolation from the nearer end keeps these exact
	assert.Equal(t, 0.15, Quantile([]float64{0.1, 0.3}, 0.25))
	assert.Equal(t, 0.25, Quantile([]float64{0.1, 0.3}, 0.75))
	assert.Equal(t, 0.225, Quantile([]float64{0.2, 0.3}, 0.25))
	assert.Equal(t, 0.275, Quantile([]float64{0.2, 0.3}, 0.75))
}

func TestMedianAndMode(t *testing.T) {
	c := FloatColumn("x", []float64{5, math.NaN(), 1, 3})
	m, ok := Median(c)
	require.True(t, ok)
	assert.Equal(t, 3.0, m)

	s := TextColumn("s", []string{"b", "a", "a", "b", ""}, []bool{false, false, false, false, true})
	idx, ok := Mode(s)
	require.True(t, ok)
	assert.Equal(t, 0, idx, "tie goes to the first value encountered")

	_, ok = Mode(TextColumn("e", []string{""}, []bool{true}))
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("03/04/2024")
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month(), "slash dates are month first")

	_, ok = ParseDate("not a date")
	assert.False(t, ok)
}
