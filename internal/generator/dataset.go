package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/schema"
)

// Dataset is a generated row set together with everything an exporter needs
type Dataset struct {
	Type    schema.DatasetType
	Schema  []schema.Column
	Columns []string // header order
	Rows    []schema.Row
	Tasks   []string
}

// AssembleRow builds one row from the declared columns and applies the
// dataset type's derived-column rule
func (g *Generator) AssembleRow(columns []schema.Column, messy config.MessyConfig, t schema.DatasetType) schema.Row {
	row := make(schema.Row, len(columns)+5)
	for _, col := range columns {
		row[col.Name] = g.GenerateValue(col, messy)
	}
	g.ApplyRules(t, row)
	return row
}

// GenerateDataset produces rowCount rows followed by the duplicate rows
// requested by messy.DuplicatePct
func (g *Generator) GenerateDataset(rowCount int, columns []schema.Column, messy config.MessyConfig, t schema.DatasetType) []schema.Row {
	rows, _ := g.generate(context.Background(), rowCount, columns, messy, t)
	return rows
}

// DuplicateCount returns how many duplicate rows a run of rowCount rows gets
func DuplicateCount(rowCount int, duplicatePct float64) int {
	return config.MessyConfig{DuplicatePct: duplicatePct}.DuplicateRows(rowCount)
}

// cancelCheckInterval is how many rows are generated between context checks
const cancelCheckInterval = 4096

func (g *Generator) generate(ctx context.Context, rowCount int, columns []schema.Column, messy config.MessyConfig, t schema.DatasetType) ([]schema.Row, error) {
	if rowCount < 0 {
		rowCount = 0
	}
	dups := DuplicateCount(rowCount, messy.DuplicatePct)
	rows := make([]schema.Row, 0, rowCount+dups)

	for i := 0; i < rowCount; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rows = append(rows, g.AssembleRow(columns, messy, t))
	}

	// Duplicates sample from the accumulating set, so a duplicate can itself
	// be duplicated.
	for i := 0; i < dups; i++ {
		rows = append(rows, rows[g.src.IntN(len(rows))].Clone())
	}

	return rows, nil
}

// Build resolves the request's schema and generates the full dataset
func (g *Generator) Build(ctx context.Context, cfg config.GeneratorConfig) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	columns := cfg.ResolveColumns()
	slog.Debug("Generating dataset",
		"type", cfg.Type,
		"rows", cfg.RowCount,
		"columns", len(columns),
		"duplicates", DuplicateCount(cfg.RowCount, cfg.Messy.DuplicatePct),
	)

	rows, err := g.generate(ctx, cfg.RowCount, columns, cfg.Messy, cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("generation interrupted: %w", err)
	}

	return &Dataset{
		Type:    cfg.Type,
		Schema:  columns,
		Columns: schema.OrderedColumns(columns, cfg.Type),
		Rows:    rows,
		Tasks:   schema.PracticeTasks(cfg.Type),
	}, nil
}

// GenerateDataset generates a dataset with the process-wide random source
func GenerateDataset(rowCount int, columns []schema.Column, messy config.MessyConfig, t schema.DatasetType) []schema.Row {
	return New().GenerateDataset(rowCount, columns, messy, t)
}
