package leakage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/visaprep-cli/internal/config"
	"github.com/KaramelBytes/visaprep-cli/internal/dataset"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const processed = `applicant_id,income,state,application_date,decision_date,visa_status,application_date_year,decision_date_year,decision_date_month,decision_date_day,decision_date_dayofweek,applicant_id_frequency
A1,109600.0,CALIFORNIA,2024-01-15,2024-03-01,Approved,2024,2024,3,1,4,1
A2,98000.0,NEW YORK,2024-01-22,2024-03-05,Denied,2024,2024,3,5,1,1
`

func setup(t *testing.T, content string) *config.Global {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Global{
		ProcessedFile: filepath.Join(dir, "processed", "visa_applications_processed.csv"),
		MLReadyFile:   filepath.Join(dir, "processed", "visa_applications_ml_ready.csv"),
	}
	if content != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(cfg.ProcessedFile), 0o755))
		require.NoError(t, os.WriteFile(cfg.ProcessedFile, []byte(content), 0o644))
	}
	return cfg
}

func TestRunRemovesLeakageColumnsAfterByteOrderMark(t *testing.T) {
	cfg := setup(t, "\ufeff"+processed)
	res, err := New(cfg, zerolog.Nop()).Run()
	require.NoError(t, err)

	assert.ElementsMatch(t, config.DefaultLeakageColumns, res.Removed)
	assert.NotContains(t, res.Features, "applicant_id")
	assert.NotContains(t, res.Features, "applicant_id_frequency")

	b, err := os.ReadFile(cfg.MLReadyFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "income,state,"), string(b))
}

func TestRunRemovesLeakageColumns(t *testing.T) {
	cfg := setup(t, processed)
	res, err := New(cfg, zerolog.Nop()).Run()
	require.NoError(t, err)

	assert.ElementsMatch(t, config.DefaultLeakageColumns, res.Removed)
	assert.True(t, res.HasTarget)
	assert.Equal(t, "visa_status", res.Target)
	assert.Equal(t, []string{"income", "state", "application_date", "application_date_year"}, res.Features)

	out, err := dataset.NewLoader(zerolog.Nop()).Load(cfg.MLReadyFile)
	require.NoError(t, err)
	for _, name := range config.DefaultLeakageColumns {
		assert.Equal(t, -1, out.Index(name), name)
	}
	assert.GreaterOrEqual(t, out.Index("visa_status"), 0)
	assert.Equal(t, 2, out.Len())

	b, err := os.ReadFile(cfg.MLReadyFile)
	require.NoError(t, err)
	assert.Equal(t, "income,state,application_date,visa_status,application_date_year\n"+
		"109600.0,CALIFORNIA,2024-01-15,Approved,2024\n"+
		"98000.0,NEW YORK,2024-01-22,Denied,2024\n", string(b))
}

func TestRemoveLeakageReportsOnlyPresentColumns(t *testing.T) {
	tbl, err := table.New(
		table.TextColumn("applicant_id", []string{"A1"}, nil),
		table.TextColumn("visa_status", []string{"Approved"}, nil),
	)
	require.NoError(t, err)
	r := New(&config.Global{}, zerolog.Nop())
	out, removed := r.RemoveLeakage(tbl)
	assert.Equal(t, []string{"applicant_id"}, removed)
	assert.Equal(t, []string{"visa_status"}, out.Names())
	// the input keeps its columns
	assert.Equal(t, 2, tbl.Width())
}

func TestSplitWithoutTarget(t *testing.T) {
	tbl, err := table.New(table.TextColumn("state", []string{"TEXAS"}, nil))
	require.NoError(t, err)
	features, target, ok := New(&config.Global{}, zerolog.Nop()).Split(tbl)
	assert.False(t, ok)
	assert.Empty(t, target)
	assert.Equal(t, []string{"state"}, features)
}

func TestRunWithoutTargetIsNotAnError(t *testing.T) {
	cfg := setup(t, "applicant_id,state\nA1,TEXAS\n")
	res, err := New(cfg, zerolog.Nop()).Run()
	require.NoError(t, err)
	assert.False(t, res.HasTarget)
	assert.Equal(t, []string{"applicant_id"}, res.Removed)
}

func TestCustomLeakageColumns(t *testing.T) {
	cfg := setup(t, processed)
	cfg.LeakageColumns = []string{"state"}
	cfg.TargetColumn = "income"
	res, err := New(cfg, zerolog.Nop()).Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"state"}, res.Removed)
	assert.Equal(t, "income", res.Target)
	assert.Contains(t, res.Features, "applicant_id")
}

func TestRunMissingProcessedFile(t *testing.T) {
	cfg := setup(t, "")
	_, err := New(cfg, zerolog.Nop()).Run()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "load: "))
	var nf *dataset.NotFoundError
	assert.True(t, errors.As(err, &nf))
}
