package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// CSVExporter writes the first sheet as comma-separated values. Missing
// values become empty cells.
type CSVExporter struct{}

func (e *CSVExporter) Export(path string, wb *Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.Sheets[0]

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	w := csv.NewWriter(buf)

	if err := w.Write(sheet.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(sheet.Columns))
	for _, row := range sheet.Rows {
		for i, v := range sheet.Values(row) {
			record[i] = cellText(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return f.Close()
}

// cellText renders a value the way a spreadsheet shows it
func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
