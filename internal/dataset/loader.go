package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/visaprep-cli/internal/logging"
	"github.com/KaramelBytes/visaprep-cli/internal/table"
	"github.com/KaramelBytes/visaprep-cli/internal/utils"
	"github.com/rs/zerolog"
)

// Loader reads raw tables from disk and reports on their quality.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader returns a Loader that logs through logger.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logging.Component(logger, "loader")}
}

// Load reads a CSV/TSV file, or the first worksheet of an .xlsx workbook.
func (l *Loader) Load(path string) (*table.Table, error) {
	return l.LoadSheet(path, "")
}

// LoadSheet is Load with an explicit worksheet name for .xlsx input.
func (l *Loader) LoadSheet(path, sheet string) (*table.Table, error) {
	l.logger.Info().Str("path", path).Msg("loading data")
	t, err := l.read(path, sheet)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			l.logger.Error().Str("path", path).Msg("file not found")
		} else {
			l.logger.Error().Err(err).Str("path", path).Msg("error loading data")
		}
		return nil, err
	}
	l.logger.Info().Int("rows", t.Len()).Int("columns", t.Width()).Msg("data loaded")
	return t, nil
}

func (l *Loader) read(path, sheet string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") {
		header, rows, err := readXLSX(path, sheet)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		t, err := table.FromRecords(header, rows)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	comma := ','
	if strings.HasSuffix(lower, ".tsv") {
		comma = '\t'
	}
	t, err := table.ReadCSV(f, comma)
	if err != nil {
		pe := &ParseError{Path: filepath.Clean(path), Err: err}
		var ce *csv.ParseError
		if errors.As(err, &ce) {
			pe.Line = ce.Line
		}
		return nil, pe
	}
	return t, nil
}

// Export writes t as comma-separated text with a header row. The file is
// replaced atomically.
func Export(path string, t *table.Table) error {
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, t); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
