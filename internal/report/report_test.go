package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/schema"
)

type ReportSuite struct {
	suite.Suite
	ds *generator.Dataset
}

func (s *ReportSuite) SetupTest() {
	cols := []schema.Column{
		{Name: "ID", Type: schema.TypeNumber},
		{Name: "Name", Type: schema.TypeText},
		{Name: "Email", Type: schema.TypeEmail},
	}
	s.ds = &generator.Dataset{
		Type:    schema.DatasetCustom,
		Schema:  cols,
		Columns: []string{"ID", "Name", "Email", "Note"},
		Rows: []schema.Row{
			{"ID": 1, "Name": "Amit Sharma", "Email": "amit.sharma@example.com", "Note": "ok"},
			{"ID": "2", "Name": "  Priya Patel", "Email": "priya.patel (at) example.com", "Note": " x "},
			{"ID": nil, "Name": 42, "Email": nil, "Note": 7},
			{"ID": 1, "Name": "Amit Sharma", "Email": "amit.sharma@example.com", "Note": "ok"},
		},
	}
}

func (s *ReportSuite) TestAnalyze() {
	r := Analyze(s.ds)

	s.Equal(4, r.Rows)
	s.Equal(1, r.DuplicateRows)
	s.Require().Len(r.Columns, 4)

	s.Equal(ColumnStats{Name: "ID", Missing: 1, TypeMismatch: 1}, r.Columns[0])
	s.Equal(ColumnStats{Name: "Name", Padded: 1, TypeMismatch: 1}, r.Columns[1])
	s.Equal(ColumnStats{Name: "Email", Missing: 1, InvalidFormat: 1}, r.Columns[2])
	// undeclared columns are only checked for padding and missing values
	s.Equal(ColumnStats{Name: "Note", Padded: 1}, r.Columns[3])

	s.Equal(2, r.Missing())
	s.Equal(1+2+2+2+1, r.Issues())
}

func (s *ReportSuite) TestDisplay() {
	var buf bytes.Buffer
	Display(&buf, Analyze(s.ds))
	out := buf.String()

	s.Contains(out, "=== Data Quality Report (CUSTOM) ===")
	s.Contains(out, "Rows: 4\n")
	s.Contains(out, "Duplicate rows: 1\n")
	s.Contains(out, "Email")
	s.Contains(out, "Total issues: 8\n")
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportSuite))
}

func TestCleanDatasetHasNoIssues(t *testing.T) {
	ds, err := generator.New().Build(t.Context(), config.GeneratorConfig{
		Type:     schema.DatasetStudent,
		RowCount: 200,
	})
	require.NoError(t, err)

	r := Analyze(ds)
	assert.Equal(t, 200, r.Rows)
	assert.Zero(t, r.Missing())
	for _, c := range r.Columns {
		assert.Zero(t, c.Padded, c.Name)
		assert.Zero(t, c.TypeMismatch, c.Name)
		assert.Zero(t, c.InvalidFormat, c.Name)
	}

	var buf bytes.Buffer
	Display(&buf, &Report{Type: schema.DatasetStudent, Rows: 1500})
	assert.Contains(t, buf.String(), "Rows: 1,500\n")
	assert.Contains(t, buf.String(), "No issues found.")
}

func TestMessyDatasetIsDetected(t *testing.T) {
	ds, err := generator.New().Build(t.Context(), config.GeneratorConfig{
		Type:     schema.DatasetStudent,
		RowCount: 500,
		Messy:    config.MessyConfig{MissingPct: 100, DuplicatePct: 10},
	})
	require.NoError(t, err)

	r := Analyze(ds)
	assert.Equal(t, 550, r.Rows)
	// every row is entirely empty, so all but the first are duplicates
	assert.Equal(t, 549, r.DuplicateRows)
	assert.Equal(t, 550*5, r.Missing())
}
