package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/koba/xcellab/internal/export"
	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/report"
	"github.com/koba/xcellab/internal/schema"
)

var inspectLimit int

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.db>",
	Short: "Show the metadata and rows of an exported SQLite dataset",
	Long: `Read a dataset written with --format sqlite: print its generation metadata,
the first rows of the raw data, and optionally a data quality report of every row.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLimit, "limit", 10, "Rows to show (0 shows none)")
	inspectCmd.Flags().BoolVar(&showReport, "report", false, "Print a data quality report of the stored rows")
}

func runInspect(cmd *cobra.Command, args []string) error {
	return inspectFile(cmd.OutOrStdout(), args[0], inspectLimit, showReport)
}

func inspectFile(out io.Writer, path string, limit int, withReport bool) error {
	metadata, err := export.ReadMetadata(path)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	rowCount := metadata["row_count"]
	if n, err := strconv.Atoi(rowCount); err == nil {
		rowCount = humanize.Comma(int64(n))
	}

	fmt.Fprintf(out, "=== %s ===\n", path)
	fmt.Fprintf(out, "Generation: %s\n", metadata["generation_id"])
	fmt.Fprintf(out, "Created:    %s\n", metadata["created_at"])
	fmt.Fprintf(out, "Type:       %s\n", metadata["dataset_type"])
	fmt.Fprintf(out, "Rows:       %s\n", rowCount)

	if limit > 0 {
		sheet, err := export.ReadSheet(path, export.RawDataSheet, limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printTable(out, sheet.Columns, sheet.Rows)
	}

	if withReport {
		sheet, err := export.ReadSheet(path, export.RawDataSheet, 0)
		if err != nil {
			return err
		}
		// The stored file carries no declared schema, so only missing,
		// padded and duplicate values are counted.
		ds := &generator.Dataset{
			Type:    schema.DatasetType(metadata["dataset_type"]),
			Columns: sheet.Columns,
			Rows:    sheet.Rows,
		}
		fmt.Fprintln(out)
		report.Display(out, report.Analyze(ds))
	}

	return nil
}
