package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/database"
	xerrors "github.com/koba/xcellab/internal/errors"
	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/schema"
)

func sampleDataset() *generator.Dataset {
	return &generator.Dataset{
		Type:    schema.DatasetSales,
		Columns: []string{"Order ID", "Product", "Region", "Unit Price"},
		Rows: []schema.Row{
			{"Order ID": 101, "Product": "Laptop", "Region": "Pune", "Unit Price": 45999.5},
			{"Order ID": 102, "Product": "  Desk, oak", "Region": nil, "Unit Price": 1200.25},
			{"Order ID": "103", "Product": `27" "Monitor"`, "Region": "DELHI", "Unit Price": nil},
		},
		Tasks: schema.PracticeTasks(schema.DatasetSales),
	}
}

func sampleWorkbook() *Workbook {
	wb := NewWorkbook(sampleDataset())
	wb.CreatedAt = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	return wb
}

func TestWorkbookSheets(t *testing.T) {
	ds := sampleDataset()
	sheets := WorkbookSheets(ds)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Raw Data", sheets[0].Name)
	assert.Equal(t, ds.Columns, sheets[0].Columns)
	assert.Len(t, sheets[0].Rows, 3)

	assert.Equal(t, "Instructions & Tasks", sheets[1].Name)
	assert.Equal(t, []string{"Practice Task"}, sheets[1].Columns)
	require.Len(t, sheets[1].Rows, len(ds.Tasks))
	for i, task := range ds.Tasks {
		assert.Equal(t, task, sheets[1].Rows[i]["Practice Task"])
	}

	assert.Equal(t, []interface{}{102, "  Desk, oak", nil, 1200.25}, sheets[0].Values(ds.Rows[1]))
}

func TestNewWorkbook(t *testing.T) {
	a := NewWorkbook(sampleDataset())
	b := NewWorkbook(sampleDataset())
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, schema.DatasetSales, a.Type)
	assert.Equal(t, 3, a.RowCount())
	assert.Equal(t, 0, (&Workbook{}).RowCount())
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "practice.xlsx"), OutputPath("out", "practice", config.FormatXLSX))
	assert.Equal(t, filepath.Join("out", "practice.xlsx"), OutputPath("out", "practice.xlsx", config.FormatXLSX))
	assert.Equal(t, filepath.Join("out", "practice.XLSX"), OutputPath("out", "practice.XLSX", config.FormatXLSX))
	assert.Equal(t, filepath.Join("out", "practice.csv.xlsx"), OutputPath("out", "practice.csv", config.FormatXLSX))
	assert.Equal(t, "xcellab_practice_data.db", OutputPath("", "", config.FormatSQLite))
	assert.Equal(t, filepath.Join(".", "data.json"), OutputPath(".", "data", config.FormatJSON))
}

func TestNewUnsupportedFormat(t *testing.T) {
	_, err := New(config.Format("ods"), Options{})
	require.Error(t, err)
	assert.Equal(t, xerrors.ErrCategoryExport, xerrors.GetCategory(err))
	assert.Equal(t, xerrors.CodeUnsupportedFormat, xerrors.GetCode(err))

	exp, err := New(config.FormatSQL, Options{})
	require.NoError(t, err)
	assert.Equal(t, database.DialectSQLite, exp.(*SQLExporter).Dialect)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, Write(sampleWorkbook(), config.FormatXLSX, path, Options{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Raw Data", "Instructions & Tasks"}, f.GetSheetList())

	rows, err := f.GetRows("Raw Data")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Order ID", "Product", "Region", "Unit Price"}, rows[0])
	assert.Equal(t, []string{"101", "Laptop", "Pune", "45999.5"}, rows[1])
	assert.Equal(t, []string{"102", "  Desk, oak", "", "1200.25"}, rows[2])
	assert.Equal(t, "103", rows[3][0])
	assert.Equal(t, "DELHI", rows[3][2])

	tasks, err := f.GetRows("Instructions & Tasks")
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	assert.Equal(t, []string{"Practice Task"}, tasks[0])
	assert.Equal(t, schema.PracticeTasks(schema.DatasetSales)[0], tasks[1][0])
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "book.csv")
	require.NoError(t, Write(sampleWorkbook(), config.FormatCSV, path, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "Order ID,Product,Region,Unit Price\n" +
		"101,Laptop,Pune,45999.5\n" +
		"102,\"  Desk, oak\",,1200.25\n" +
		"103,\"27\"\" \"\"Monitor\"\"\",DELHI,\n"
	assert.Equal(t, want, string(data))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, Write(sampleWorkbook(), config.FormatJSON, path, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, float64(101), decoded[0]["Order ID"])
	assert.Equal(t, "  Desk, oak", decoded[1]["Product"])
	assert.Nil(t, decoded[1]["Region"])
	assert.Equal(t, "103", decoded[2]["Order ID"])

	// keys keep the header order
	first := strings.Split(string(data), "\n")[1]
	assert.Equal(t, `  {"Order ID": 101, "Product": "Laptop", "Region": "Pune", "Unit Price": 45999.5},`, first)
}

func TestWriteJSONEmpty(t *testing.T) {
	wb := &Workbook{Sheets: []Sheet{{Name: RawDataSheet, Columns: []string{"ID"}}}}
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Write(wb, config.FormatJSON, path, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestGenerateSQL(t *testing.T) {
	sheet := WorkbookSheets(sampleDataset())[0]
	got := GenerateSQL(database.DialectMySQL, sheet)

	assert.Contains(t, got, "DROP TABLE IF EXISTS `raw_data`;")
	assert.Contains(t, got, "CREATE TABLE `raw_data` (\n  `Order ID` TEXT,\n  `Product` TEXT,\n  `Region` TEXT,\n  `Unit Price` DOUBLE\n);")
	assert.Contains(t, got, "INSERT INTO `raw_data` (`Order ID`, `Product`, `Region`, `Unit Price`) VALUES (101, 'Laptop', 'Pune', 45999.5);")
	assert.Contains(t, got, "VALUES (102, '  Desk, oak', NULL, 1200.25);")
	assert.Contains(t, got, "VALUES ('103', '27\" \"Monitor\"', 'DELHI', NULL);")
}

func TestWriteSQL(t *testing.T) {
	wb := sampleWorkbook()
	path := filepath.Join(t.TempDir(), "book.sql")
	require.NoError(t, Write(wb, config.FormatSQL, path, Options{Dialect: database.DialectPostgres}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	script := string(data)

	assert.True(t, strings.HasPrefix(script, "-- xcellab SALES dataset, generation "+wb.ID+"\n-- dialect: postgres\n"))
	assert.Contains(t, script, `CREATE TABLE "raw_data"`)
	assert.Contains(t, script, `CREATE TABLE "instructions_tasks" (`+"\n"+`  "Practice Task" TEXT`+"\n);")
	assert.Equal(t, 3+4, strings.Count(script, "INSERT INTO"))
}

func TestWriteSQLite(t *testing.T) {
	wb := sampleWorkbook()
	path := filepath.Join(t.TempDir(), "book.db")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, Write(wb, config.FormatSQLite, path, Options{}))

	metadata, err := ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"generation_id": wb.ID,
		"created_at":    "2025-03-15T10:30:00Z",
		"dataset_type":  "SALES",
		"row_count":     "3",
	}, metadata)

	db := database.NewSQLite(database.Config{Database: path})
	require.NoError(t, db.Connect())
	defer db.Close()

	rows, err := db.GetTableData("raw_data", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "101", rows[0]["Order ID"])
	assert.Equal(t, 45999.5, rows[0]["Unit Price"])
	assert.Nil(t, rows[1]["Region"])

	tasks, err := db.GetTableData("instructions_tasks", 0)
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestReadSheet(t *testing.T) {
	wb := sampleWorkbook()
	path := filepath.Join(t.TempDir(), "book.db")
	require.NoError(t, Write(wb, config.FormatSQLite, path, Options{}))

	sheet, err := ReadSheet(path, RawDataSheet, 0)
	require.NoError(t, err)
	assert.Equal(t, RawDataSheet, sheet.Name)
	assert.Equal(t, wb.Sheets[0].Columns, sheet.Columns)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "  Desk, oak", sheet.Rows[1]["Product"])

	limited, err := ReadSheet(path, RawDataSheet, 2)
	require.NoError(t, err)
	assert.Len(t, limited.Rows, 2)

	tasks, err := ReadSheet(path, InstructionsSheet, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{TaskColumn}, tasks.Columns)

	_, err = ReadSheet(filepath.Join(t.TempDir(), "missing.db"), RawDataSheet, 0)
	assert.Error(t, err)
}

func TestReadMetadataMissingFile(t *testing.T) {
	_, err := ReadMetadata(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, err)
}

type panickyExporter struct{}

func (panickyExporter) Export(string, *Workbook) error { panic("out of memory") }

func TestWriteRecoversPanics(t *testing.T) {
	err := writeWith(panickyExporter{}, sampleWorkbook(), config.FormatXLSX, filepath.Join(t.TempDir(), "x.xlsx"))
	require.Error(t, err)
	assert.Equal(t, xerrors.ErrCategoryExport, xerrors.GetCategory(err))
	assert.Contains(t, err.Error(), "try a smaller dataset or a different format")
	assert.ErrorIs(t, err, xerrors.NewInternalError("", nil), "the panic is kept as an INTERNAL cause")
	assert.Contains(t, err.Error(), "out of memory")
}

func TestWriteFailureIsExportError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// the parent "directory" is a regular file
	err := Write(sampleWorkbook(), config.FormatCSV, filepath.Join(blocker, "out.csv"), Options{})
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeExportFailed, xerrors.GetCode(err))
	assert.Contains(t, err.Error(), "try a smaller dataset or a different format")
}
