package config

import (
	"fmt"

	"github.com/dustin/go-humanize"

	xerrors "github.com/koba/xcellab/internal/errors"
)

const (
	// ExcelRowLimit is the worksheet row ceiling of the xlsx format
	ExcelRowLimit = 1048576
	// ConfirmRowThreshold is the row count above which a run must be confirmed
	ConfirmRowThreshold = 200000
	// HighPerformanceThreshold is the row count above which runs are flagged as heavy
	HighPerformanceThreshold = 50000
	// MassiveScaleThreshold is the row count above which runs are flagged as massive
	MassiveScaleThreshold = 1000000
	// MaxPreviewRows caps any preview regardless of the requested total
	MaxPreviewRows = 1000
	// DefaultPreviewRows is the preview size when none is given
	DefaultPreviewRows = 15
)

// Assessment describes how a requested row count should be handled
type Assessment struct {
	RowCount        int
	NeedsConfirm    bool
	HighPerformance bool
	MassiveScale    bool
}

// Status returns a one-line status message for the assessment
func (a Assessment) Status() string {
	if a.MassiveScale {
		return fmt.Sprintf("Massive scale mode: generating %s rows", humanize.Comma(int64(a.RowCount)))
	}
	if a.HighPerformance {
		return fmt.Sprintf("High performance mode: generating %s rows", humanize.Comma(int64(a.RowCount)))
	}
	return fmt.Sprintf("Generating %s rows", humanize.Comma(int64(a.RowCount)))
}

// CheckRowCount applies the export limits to a row count. For xlsx the whole
// sheet must fit: the header row, the requested rows and the duplicates that
// messy appends. Exceeding the ceiling is a blocking LIMIT error.
func CheckRowCount(rowCount int, messy MessyConfig, format Format) (Assessment, error) {
	if format == FormatXLSX {
		if rowCount > ExcelRowLimit {
			return Assessment{}, xerrors.NewLimitError(
				xerrors.CodeRowLimitExceeded,
				fmt.Sprintf("Excel only supports %s rows. You requested %s.",
					humanize.Comma(ExcelRowLimit), humanize.Comma(int64(rowCount))),
			).WithDetails(map[string]interface{}{"requested": rowCount, "limit": ExcelRowLimit})
		}

		dups := messy.DuplicateRows(rowCount)
		if sheetRows := rowCount + dups + 1; sheetRows > ExcelRowLimit {
			return Assessment{}, xerrors.NewLimitError(
				xerrors.CodeRowLimitExceeded,
				fmt.Sprintf("Excel only supports %s rows. The sheet would need %s (header, %s rows and %s duplicates).",
					humanize.Comma(ExcelRowLimit), humanize.Comma(int64(sheetRows)),
					humanize.Comma(int64(rowCount)), humanize.Comma(int64(dups))),
			).WithDetails(map[string]interface{}{"requested": rowCount, "sheet_rows": sheetRows, "limit": ExcelRowLimit})
		}
	}

	return Assessment{
		RowCount:        rowCount,
		NeedsConfirm:    rowCount > ConfirmRowThreshold,
		HighPerformance: rowCount > HighPerformanceThreshold,
		MassiveScale:    rowCount > MassiveScaleThreshold,
	}, nil
}

// ConfirmPrompt is the question asked before a large run
func ConfirmPrompt(rowCount int) string {
	return fmt.Sprintf("Warning: Generating %s rows might take several minutes and a lot of memory. Continue? [y/N] ",
		humanize.Comma(int64(rowCount)))
}

// PreviewRowCount returns how many rows a preview generates
func PreviewRowCount(rowCount, requested int) int {
	if requested <= 0 {
		requested = DefaultPreviewRows
	}
	if requested > MaxPreviewRows {
		requested = MaxPreviewRows
	}
	if rowCount < requested {
		return rowCount
	}
	return requested
}
