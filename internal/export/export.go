// Package export writes a generated dataset to disk as a workbook, a flat
// file, a SQL script or a SQLite database.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/database"
	xerrors "github.com/koba/xcellab/internal/errors"
	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/schema"
)

// failureHint is shown whenever an exporter gives up
const failureHint = "try a smaller dataset or a different format"

// Workbook is the export view of a dataset: its sheets plus identifying metadata
type Workbook struct {
	ID        string
	Type      schema.DatasetType
	CreatedAt time.Time
	Sheets    []Sheet
}

// NewWorkbook wraps a dataset for export, stamping it with a fresh generation id
func NewWorkbook(ds *generator.Dataset) *Workbook {
	return &Workbook{
		ID:        uuid.NewString(),
		Type:      ds.Type,
		CreatedAt: time.Now().UTC(),
		Sheets:    WorkbookSheets(ds),
	}
}

// RowCount is the number of data rows on the first sheet
func (w *Workbook) RowCount() int {
	if len(w.Sheets) == 0 {
		return 0
	}
	return len(w.Sheets[0].Rows)
}

// Exporter writes a workbook to a file path
type Exporter interface {
	Export(path string, wb *Workbook) error
}

// Options tune individual exporters
type Options struct {
	// Dialect selects the SQL flavour of the sql format
	Dialect database.Dialect
}

// New returns the exporter for a format
func New(format config.Format, opts Options) (Exporter, error) {
	switch format {
	case config.FormatXLSX:
		return &XLSXExporter{}, nil
	case config.FormatCSV:
		return &CSVExporter{}, nil
	case config.FormatJSON:
		return &JSONExporter{}, nil
	case config.FormatSQL:
		dialect := opts.Dialect
		if dialect == "" {
			dialect = database.DialectSQLite
		}
		return &SQLExporter{Dialect: dialect}, nil
	case config.FormatSQLite:
		return &SQLiteExporter{}, nil
	default:
		return nil, xerrors.NewExportError(xerrors.CodeUnsupportedFormat,
			fmt.Sprintf("unsupported format %q", format), nil)
	}
}

// OutputPath joins dir and filename, adding the format's extension when the
// filename does not already carry it
func OutputPath(dir, filename string, format config.Format) string {
	if filename == "" {
		filename = config.DefaultFilename
	}
	ext := format.Extension()
	if !strings.EqualFold(filepath.Ext(filename), ext) {
		filename += ext
	}
	return filepath.Join(dir, filename)
}

// Write exports wb to path with the given format. Write failures and panics
// inside an exporter come back as EXPORT errors.
func Write(wb *Workbook, format config.Format, path string, opts Options) error {
	exp, err := New(format, opts)
	if err != nil {
		return err
	}
	return writeWith(exp, wb, format, path)
}

func writeWith(exp Exporter, wb *Workbook, format config.Format, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return xerrors.NewExportError(xerrors.CodeExportFailed, failureHint,
				fmt.Errorf("failed to create output directory: %w", err))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Exporter panicked", "format", format, "path", path, "panic", r)
			err = xerrors.NewExportError(xerrors.CodeExportFailed, failureHint,
				xerrors.NewInternalError("exporter panicked", fmt.Errorf("%v", r)))
		}
	}()

	start := time.Now()
	if err := exp.Export(path, wb); err != nil {
		return xerrors.NewExportError(xerrors.CodeExportFailed, failureHint, err).
			WithDetails(map[string]interface{}{"format": string(format), "path": path})
	}

	slog.Debug("Exported dataset",
		"format", format,
		"path", path,
		"rows", wb.RowCount(),
		"elapsed", time.Since(start),
	)
	return nil
}
