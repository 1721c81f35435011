package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/koba/xcellab/internal/database"
)

// SQLExporter writes a script that recreates every sheet as a table
type SQLExporter struct {
	Dialect database.Dialect
}

func (e *SQLExporter) Export(path string, wb *Workbook) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "-- xcellab %s dataset, generation %s\n", wb.Type, wb.ID)
	fmt.Fprintf(w, "-- dialect: %s\n", e.Dialect)

	tables := Tables(wb)
	for i, sheet := range wb.Sheets {
		if err := writeTableSQL(w, e.Dialect, tables[i], sheet); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}

// GenerateSQL renders the CREATE TABLE and INSERT statements for one sheet
func GenerateSQL(dialect database.Dialect, sheet Sheet) string {
	var buf strings.Builder
	table := database.InferTable(sheet.Name, sheet.Columns, sheet.Rows)
	writeTableSQL(&buf, dialect, table, sheet)
	return buf.String()
}

type sqlWriter interface {
	WriteString(s string) (int, error)
}

func writeTableSQL(w sqlWriter, dialect database.Dialect, table database.Table, sheet Sheet) error {
	ddl := database.NewDDLGenerator(dialect)
	dml := database.NewDMLGenerator(dialect)

	if _, err := w.WriteString("\n" + ddl.DropTable(table.Name) + "\n" + ddl.CreateTable(table) + "\n"); err != nil {
		return fmt.Errorf("failed to write table %s: %w", table.Name, err)
	}
	for _, row := range sheet.Rows {
		if _, err := w.WriteString(dml.Insert(table, row) + "\n"); err != nil {
			return fmt.Errorf("failed to write table %s: %w", table.Name, err)
		}
	}
	return nil
}

// Tables infers one table definition per sheet
func Tables(wb *Workbook) []database.Table {
	tables := make([]database.Table, len(wb.Sheets))
	for i, sheet := range wb.Sheets {
		tables[i] = database.InferTable(sheet.Name, sheet.Columns, sheet.Rows)
	}
	return tables
}
