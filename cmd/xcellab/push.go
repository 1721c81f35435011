package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/database"
	"github.com/koba/xcellab/internal/export"
)

var (
	tableName    string
	replaceTable bool
	pushTasks    bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Generate a dataset and load it into a database",
	Long: `Generate a dataset and insert it into the database described by the DB_*
environment variables (DB_TYPE, DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD).`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	addRequestFlags(pushCmd)
	pushCmd.Flags().StringVar(&tableName, "table", "", "Target table name (default derived from the dataset type)")
	pushCmd.Flags().BoolVar(&replaceTable, "replace", false, "Drop the table first if it exists")
	pushCmd.Flags().BoolVar(&pushTasks, "tasks", false, "Also load the practice tasks into their own table")
	pushCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation for very large datasets")
}

func runPush(cmd *cobra.Command, args []string) error {
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	req, err := buildRequest(cmd, cfg.Generator)
	if err != nil {
		return err
	}
	req.Format = config.FormatSQL

	assessment, err := checkLimits(cmd, req)
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := db.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, %s)\n", assessment.Status(), req.Type, db.Dialect())

	ds, err := newGenerator(cmd).Build(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	wb := export.NewWorkbook(ds)
	tables := pushTables(wb, tableName, pushTasks)
	for i, table := range tables {
		if err := db.CreateTable(table, replaceTable); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		n, err := db.InsertRows(table, wb.Sheets[i].Rows)
		if err != nil {
			return fmt.Errorf("failed to load table %s: %w", table.Name, err)
		}
		fmt.Fprintf(out, "Loaded %d rows into %s\n", n, table.Name)
	}

	slog.Info("Dataset pushed", "dialect", db.Dialect(), "type", req.Type, "rows", len(ds.Rows), "generation_id", wb.ID)
	return nil
}

// pushTables returns the tables to load, in sheet order. The data table takes
// the given name, or one derived from the dataset type; the task table is
// only included on request.
func pushTables(wb *export.Workbook, name string, withTasks bool) []database.Table {
	tables := export.Tables(wb)
	if name == "" {
		name = string(wb.Type)
	}
	tables[0].Name = database.TableName(name)
	if len(tables) > 1 {
		tables[1].Name = database.TableName(tables[0].Name + "_tasks")
	}
	if !withTasks {
		return tables[:1]
	}
	return tables
}

