package clean_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/visaprep-cli/internal/clean"
	"github.com/KaramelBytes/visaprep-cli/internal/columns"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTable(t *testing.T, csv string) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(csv), ',')
	require.NoError(t, err)
	return tbl
}

func render(t *testing.T, tbl *table.Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf, tbl))
	return buf.String()
}

func newCleaner(tbl *table.Table) *clean.Cleaner {
	return clean.New(tbl, clean.DefaultOptions(), nil, zerolog.Nop())
}

func column(t *testing.T, tbl *table.Table, name string) *table.Column {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "column %s", name)
	return c
}

func TestCleanSalary(t *testing.T) {
	in := readTable(t, `id,income
1,"1,09,600.00"
2,500
3,"2,000,000"
4,abc
5,
6,45000
7,1000
`)
	c := newCleaner(in)
	c.CleanSalary()
	out := c.Table()

	income := column(t, out, "income")
	assert.Equal(t, table.Float, income.Kind)
	v, ok := income.Float(0)
	require.True(t, ok)
	assert.Equal(t, 109600.0, v)
	for _, i := range []int{1, 2, 3, 4} {
		assert.True(t, income.IsNull(i), "row %d", i)
	}
	v, _ = income.Float(5)
	assert.Equal(t, 45000.0, v)
	v, _ = income.Float(6)
	assert.Equal(t, 1000.0, v, "bounds are inclusive")
	assert.Equal(t, 2, c.Summary().SalaryRejected)

	for _, v := range income.Values() {
		assert.GreaterOrEqual(t, v, 1000.0)
		assert.LessOrEqual(t, v, 1000000.0)
	}

	// the input table is untouched
	assert.Equal(t, table.Text, column(t, in, "income").Kind)
}

func TestCleanSalaryMatchesEveryIncomeColumn(t *testing.T) {
	in := readTable(t, "base_salary,household_income,other\n999,5000,1\n")
	c := newCleaner(in)
	c.CleanSalary()
	out := c.Table()
	assert.True(t, column(t, out, "base_salary").IsNull(0))
	assert.False(t, column(t, out, "household_income").IsNull(0))
	assert.Equal(t, table.Int, column(t, out, "other").Kind)
}

func TestCleanEducationMergesSecondary(t *testing.T) {
	in := readTable(t, `education,education_level,id
Bachelor's,x,1
,PhD,2
,,3
Master's,y,4
`)
	c := newCleaner(in)
	c.CleanEducation()
	out := c.Table()

	assert.Equal(t, []string{"education", "id"}, out.Names())
	edu := column(t, out, "education")
	assert.Equal(t, []string{"Bachelor's", "PhD", "Bachelor's", "Master's"}, edu.Strs)
	assert.Zero(t, edu.NullCount())
}

func TestCleanEducationDefaultWhenEmpty(t *testing.T) {
	in := readTable(t, "education,id\n,1\n,2\n")
	c := newCleaner(in)
	c.CleanEducation()
	edu := column(t, c.Table(), "education")
	assert.Equal(t, table.Text, edu.Kind)
	assert.Equal(t, []string{"Bachelor's", "Bachelor's"}, edu.Strs)
}

func TestStandardizeStates(t *testing.T) {
	in := readTable(t, `state,state_code
ca,1
Ny,2
tx,3
zz,4
,5
California,6
`)
	c := newCleaner(in)
	c.StandardizeStates()
	out := c.Table()

	st := column(t, out, "state")
	assert.Equal(t, "CALIFORNIA", st.Text(0))
	assert.Equal(t, "NEW YORK", st.Text(1))
	assert.Equal(t, "TEXAS", st.Text(2))
	assert.Equal(t, "ZZ", st.Text(3))
	assert.True(t, st.IsNull(4))
	assert.Equal(t, "CALIFORNIA", st.Text(5))

	code := column(t, out, "state_code")
	assert.Equal(t, table.Int, code.Kind)
	assert.Equal(t, "1", code.Text(0))
}

func TestImputeMissingIsIdempotent(t *testing.T) {
	in := readTable(t, `score,city,empty,flag
1,a,,True
,,,False
3,a,,True
4,b,,True
`)
	c := newCleaner(in)
	c.ImputeMissing()
	once := c.Table()
	assert.Zero(t, once.MissingCount())

	score := column(t, once, "score")
	v, _ := score.Float(1)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, "a", column(t, once, "city").Text(1))
	v, _ = column(t, once, "empty").Float(0)
	assert.Equal(t, 0.0, v)

	c.ImputeMissing()
	assert.Equal(t, render(t, once), render(t, c.Table()))
}

func TestImputeMissingMedianOfIntegerColumn(t *testing.T) {
	tbl, err := table.New(table.IntColumn("n", []int64{1, 2, 0, 3, 4}, []bool{false, false, true, false, false}))
	require.NoError(t, err)
	c := newCleaner(tbl)
	c.ImputeMissing()
	n := column(t, c.Table(), "n")
	assert.Equal(t, "2.5", n.Text(2))
	assert.Equal(t, "float64", n.Dtype())
}

func TestRemoveDuplicates(t *testing.T) {
	in := readTable(t, "a,b\n1,x\n1,x\n2,y\n1,x\n")
	c := newCleaner(in)
	c.RemoveDuplicates()
	out := c.Table()
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, "a,b\n1,x\n2,y\n", render(t, out))
	assert.Equal(t, 2, c.Summary().DuplicatesRemoved)
}

func outlierTable(t *testing.T, order ...string) *table.Table {
	t.Helper()
	data := map[string][]float64{
		"a": {11, 13, 15, 4, 8, 14},
		"b": {1, 6, 3, 5, 16, 7},
	}
	var cols []*table.Column
	for _, name := range order {
		cols = append(cols, table.FloatColumn(name, append([]float64(nil), data[name]...)))
	}
	tbl, err := table.New(cols...)
	require.NoError(t, err)
	return tbl
}

func TestRemoveOutliersFollowsColumnOrder(t *testing.T) {
	ab := newCleaner(outlierTable(t, "a", "b"))
	ab.RemoveOutliers()
	gotAB := ab.Table()
	// b drops the row holding 16; a was already checked on the full table
	assert.Equal(t, []float64{11, 13, 15, 4, 14}, column(t, gotAB, "a").Nums)
	assert.Equal(t, []float64{1, 6, 3, 5, 7}, column(t, gotAB, "b").Nums)

	ba := newCleaner(outlierTable(t, "b", "a"))
	ba.RemoveOutliers()
	gotBA := ba.Table()
	// once 16 is gone, a's bounds tighten to [6.5, 18.5] and 4 is dropped too
	assert.Equal(t, []float64{11, 13, 15, 14}, column(t, gotBA, "a").Nums)
	assert.Equal(t, []float64{1, 6, 3, 7}, column(t, gotBA, "b").Nums)

	assert.NotEqual(t, gotAB.Len(), gotBA.Len())
}

func TestRemoveOutliersDropsMissingOnlyWithOutliers(t *testing.T) {
	tbl, err := table.New(
		table.FloatColumn("x", []float64{1, 2, 3, math.NaN(), 2}),
		table.FloatColumn("y", []float64{1, 2, 3, 4, 1000}),
	)
	require.NoError(t, err)
	c := newCleaner(tbl)
	c.RemoveOutliers()
	out := c.Table()
	// x has no outliers so its missing row survives; y then drops 1000
	assert.Equal(t, 4, out.Len())
	assert.True(t, column(t, out, "x").IsNull(3))

	tbl, err = table.New(
		table.FloatColumn("y", []float64{1, 2, 3, math.NaN(), 1000}),
	)
	require.NoError(t, err)
	c = newCleaner(tbl)
	c.RemoveOutliers()
	assert.Equal(t, 3, c.Table().Len())
}

func TestRunLeavesNoMissingAndNeverAddsRows(t *testing.T) {
	in := readTable(t, `applicant_id,income,state,education,education_level,application_date,visa_status
A1,"1,09,600.00",ca,Bachelor's,,2024-01-15,Approved
A2,85000,ny,,Master's,2024-02-03,Denied
A3,50,tx,,,2024-03-10,Approved
A4,95000,ca,PhD,,,Approved
A4,95000,ca,PhD,,,Approved
A5,120000,fl,Master's,,2024-05-01,Denied
`)
	out := newCleaner(in).Run()
	assert.LessOrEqual(t, out.Len(), in.Len())
	assert.Zero(t, out.MissingCount())
	assert.Equal(t, -1, out.Index("education_level"))

	income := column(t, out, "income")
	v, _ := income.Float(0)
	assert.Equal(t, 109600.0, v)
	assert.Equal(t, "CALIFORNIA", column(t, out, "state").Text(0))
	assert.Zero(t, out.Duplicates())
}

func TestSchemaClassifier(t *testing.T) {
	in := readTable(t, "pay,region\n\"12,000\",ca\n")
	cls := columns.Schema{"pay": {columns.Salary}, "region": {columns.State}}
	c := clean.New(in, clean.DefaultOptions(), cls, zerolog.Nop())
	c.CleanSalary()
	c.StandardizeStates()
	out := c.Table()
	v, _ := column(t, out, "pay").Float(0)
	assert.Equal(t, 12000.0, v)
	assert.Equal(t, "CALIFORNIA", column(t, out, "region").Text(0))
}
