package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// JSONExporter writes the first sheet as an array of objects, one per row,
// with keys in header order
type JSONExporter struct{}

func (e *JSONExporter) Export(path string, wb *Workbook) error {
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.Sheets[0]

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	// encoding/json sorts map keys, so objects are assembled by hand to keep
	// the header order
	keys := make([][]byte, len(sheet.Columns))
	for i, col := range sheet.Columns {
		if keys[i], err = json.Marshal(col); err != nil {
			return fmt.Errorf("failed to encode column %s: %w", col, err)
		}
	}

	w.WriteString("[")
	for r, row := range sheet.Rows {
		if r > 0 {
			w.WriteString(",")
		}
		w.WriteString("\n  {")
		for i, v := range sheet.Values(row) {
			if i > 0 {
				w.WriteString(", ")
			}
			value, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("failed to encode row %d: %w", r+1, err)
			}
			w.Write(keys[i])
			w.WriteString(": ")
			w.Write(value)
		}
		w.WriteString("}")
	}
	if len(sheet.Rows) > 0 {
		w.WriteString("\n")
	}
	w.WriteString("]\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}
