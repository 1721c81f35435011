package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter writes one worksheet per sheet through excelize's stream
// writer, which keeps memory flat for large row counts
type XLSXExporter struct{}

func (e *XLSXExporter) Export(path string, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, header); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet.Name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet.Name)
	if err != nil {
		return err
	}

	if len(sheet.Columns) > 0 {
		width := 18.0
		if sheet.Name == InstructionsSheet {
			width = 90
		}
		if err := sw.SetColWidth(1, len(sheet.Columns), width); err != nil {
			return err
		}
	}

	headerRow := make([]interface{}, len(sheet.Columns))
	for i, col := range sheet.Columns {
		headerRow[i] = excelize.Cell{StyleID: headerStyle, Value: col}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, sheet.Values(row)); err != nil {
			return err
		}
	}

	return sw.Flush()
}
