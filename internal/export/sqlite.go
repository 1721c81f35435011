package export

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/koba/xcellab/internal/database"
	"github.com/koba/xcellab/internal/schema"
)

// MetadataTable holds one key/value row per workbook attribute
const MetadataTable = "metadata"

var metadataTable = database.Table{
	Name: MetadataTable,
	Columns: []database.Column{
		{Name: "key", Kind: database.KindText},
		{Name: "value", Kind: database.KindText},
	},
}

// SQLiteExporter writes the workbook into a fresh SQLite database: a
// metadata table plus one table per sheet
type SQLiteExporter struct{}

func (e *SQLiteExporter) Export(path string, wb *Workbook) error {
	// Remove existing database file if it exists
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	db := database.NewSQLite(database.Config{Type: string(database.DialectSQLite), Database: path})
	if err := db.Connect(); err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateTable(metadataTable, false); err != nil {
		return err
	}
	metadata := []schema.Row{
		{"key": "generation_id", "value": wb.ID},
		{"key": "created_at", "value": wb.CreatedAt.Format(time.RFC3339)},
		{"key": "dataset_type", "value": string(wb.Type)},
		{"key": "row_count", "value": strconv.Itoa(wb.RowCount())},
	}
	if _, err := db.InsertRows(metadataTable, metadata); err != nil {
		return fmt.Errorf("failed to insert metadata: %w", err)
	}

	tables := Tables(wb)
	for i, sheet := range wb.Sheets {
		if err := db.CreateTable(tables[i], false); err != nil {
			return err
		}
		if _, err := db.InsertRows(tables[i], sheet.Rows); err != nil {
			return fmt.Errorf("failed to store sheet %s: %w", sheet.Name, err)
		}
	}

	return db.Close()
}

// ReadMetadata loads the metadata table of an exported SQLite database
func ReadMetadata(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file does not exist: %s", path)
	}

	db := database.NewSQLite(database.Config{Type: string(database.DialectSQLite), Database: path})
	if err := db.Connect(); err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.GetTableData(MetadataTable, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}

	metadata := make(map[string]string, len(rows))
	for _, row := range rows {
		key, _ := row["key"].(string)
		value, _ := row["value"].(string)
		metadata[key] = value
	}
	return metadata, nil
}

// ReadSheet loads a sheet back from an exported SQLite database, keeping the
// column order. A positive limit caps the number of rows read.
func ReadSheet(path, name string, limit int) (Sheet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Sheet{}, fmt.Errorf("database file does not exist: %s", path)
	}

	db := database.NewSQLite(database.Config{Type: string(database.DialectSQLite), Database: path})
	if err := db.Connect(); err != nil {
		return Sheet{}, err
	}
	defer db.Close()

	table := database.TableName(name)
	columns, err := db.TableColumns(table)
	if err != nil {
		return Sheet{}, err
	}
	rows, err := db.GetTableData(table, limit)
	if err != nil {
		return Sheet{}, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	return Sheet{Name: name, Columns: columns, Rows: rows}, nil
}
