package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/koba/xcellab/internal/config"
	"github.com/koba/xcellab/internal/database"
	xerrors "github.com/koba/xcellab/internal/errors"
	"github.com/koba/xcellab/internal/export"
	"github.com/koba/xcellab/internal/generator"
	"github.com/koba/xcellab/internal/report"
	"github.com/koba/xcellab/internal/schema"
	"github.com/koba/xcellab/internal/storage"
)

// Request flags, shared by generate, preview and push
var (
	datasetType    string
	rowCount       int
	difficulty     string
	missingPct     float64
	duplicatePct   float64
	extraSpaces    bool
	mixedCasing    bool
	wrongTypes     bool
	invalidFormats bool
	schemaFile     string
	seed           uint64
	showReport     bool
)

// Output flags
var (
	format       string
	filename     string
	outputDir    string
	dialect      string
	assumeYes    bool
	upload       bool
	previewLimit int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a practice dataset",
	Long:  `Generate a messy practice dataset and export it as xlsx, csv, json, a SQL script or a SQLite database.`,
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the first rows of a dataset",
	Long:  `Generate a small sample with the same settings as generate and print it as a table.`,
	Args:  cobra.NoArgs,
	RunE:  runPreview,
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&datasetType, "type", "t", "", "Dataset type, see the presets command (default from config)")
	cmd.Flags().IntVarP(&rowCount, "rows", "n", 0, "Number of rows before duplicates (default from config)")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "", "Difficulty: beginner, intermediate, advanced or custom")
	cmd.Flags().Float64Var(&missingPct, "missing", 0, "Percentage of missing values (custom difficulty)")
	cmd.Flags().Float64Var(&duplicatePct, "duplicates", 0, "Percentage of duplicate rows (custom difficulty)")
	cmd.Flags().BoolVar(&extraSpaces, "extra-spaces", false, "Pad text with extra spaces (custom difficulty)")
	cmd.Flags().BoolVar(&mixedCasing, "mixed-casing", false, "Randomly upper- or lower-case text (custom difficulty)")
	cmd.Flags().BoolVar(&wrongTypes, "wrong-types", false, "Store some numbers as text and vice versa (custom difficulty)")
	cmd.Flags().BoolVar(&invalidFormats, "invalid-formats", false, "Break some email addresses (custom difficulty)")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "Column schema file for the CUSTOM type (.yaml or .json)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible dataset")
	cmd.Flags().BoolVar(&showReport, "report", false, "Print a data quality report of the generated rows")
}

func init() {
	addRequestFlags(generateCmd)
	generateCmd.Flags().StringVarP(&format, "format", "f", "", "Output format: xlsx, csv, json, sql or sqlite (default from config)")
	generateCmd.Flags().StringVarP(&filename, "output", "o", "", "Output file name (default from config)")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().StringVar(&dialect, "dialect", "sqlite", "SQL dialect for the sql format: mysql, postgres or sqlite")
	generateCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation for very large datasets")
	generateCmd.Flags().BoolVar(&upload, "upload", false, "Upload the exported file to the configured storage")

	addRequestFlags(previewCmd)
	previewCmd.Flags().IntVar(&previewLimit, "limit", config.DefaultPreviewRows, "Rows to show (at most 1000)")
}

// buildRequest resolves the generation request from flags over the config defaults
func buildRequest(cmd *cobra.Command, defaults config.GeneratorDefaults) (config.GeneratorConfig, error) {
	flags := cmd.Flags()

	typeName := defaults.Type
	if flags.Changed("type") {
		typeName = datasetType
	}
	schemaPath := defaults.SchemaFile
	if flags.Changed("schema") {
		schemaPath = schemaFile
		// a schema file on its own implies a custom dataset
		if !flags.Changed("type") {
			typeName = string(schema.DatasetCustom)
		}
	}
	t, err := schema.ParseDatasetType(typeName)
	if err != nil {
		return config.GeneratorConfig{}, err
	}

	rows := defaults.RowCount
	if flags.Changed("rows") {
		rows = rowCount
	}

	messy := defaults.Messy
	messyChanged := false
	if flags.Changed("missing") {
		messy.MissingPct, messyChanged = missingPct, true
	}
	if flags.Changed("duplicates") {
		messy.DuplicatePct, messyChanged = duplicatePct, true
	}
	if flags.Changed("extra-spaces") {
		messy.ExtraSpaces, messyChanged = extraSpaces, true
	}
	if flags.Changed("mixed-casing") {
		messy.MixedCasing, messyChanged = mixedCasing, true
	}
	if flags.Changed("wrong-types") {
		messy.WrongTypes, messyChanged = wrongTypes, true
	}
	if flags.Changed("invalid-formats") {
		messy.InvalidFormats, messyChanged = invalidFormats, true
	}

	level := defaults.Difficulty
	switch {
	case flags.Changed("difficulty"):
		level = difficulty
	case messyChanged:
		level = string(config.DifficultyCustom)
	}
	d, err := config.ParseDifficulty(level)
	if err != nil {
		return config.GeneratorConfig{}, err
	}
	if messyChanged && d != config.DifficultyCustom {
		slog.Warn("Noise flags are ignored unless difficulty is custom", "difficulty", d)
	}

	req := config.GeneratorConfig{
		Type:     t,
		RowCount: rows,
		Messy:    d.Apply(messy),
		Filename: defaults.Filename,
	}

	if t == schema.DatasetCustom {
		if schemaPath == "" {
			return config.GeneratorConfig{}, fmt.Errorf("the CUSTOM type needs a schema file: pass --schema or run the suggest command")
		}
		req.Columns, err = schema.LoadColumns(schemaPath)
		if err != nil {
			return config.GeneratorConfig{}, fmt.Errorf("failed to load schema: %w", err)
		}
	}

	return req, nil
}

// newGenerator returns a seeded generator when --seed was given
func newGenerator(cmd *cobra.Command) *generator.Generator {
	if cmd.Flags().Changed("seed") {
		return generator.New(generator.WithSource(generator.NewSeededSource(seed)))
	}
	return generator.New()
}

// confirmLargeRun asks before a run above the confirmation threshold. A
// non-interactive session must pass --yes instead.
func confirmLargeRun(in io.Reader, out io.Writer, interactive bool, rows int) error {
	if !interactive {
		return xerrors.NewLimitError(xerrors.CodeNotConfirmed,
			fmt.Sprintf("%d rows needs confirmation; pass --yes to continue", rows))
	}

	fmt.Fprint(out, config.ConfirmPrompt(rows))
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return xerrors.NewLimitError(xerrors.CodeNotConfirmed, "generation cancelled")
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// checkLimits applies the row limits for a format and asks for confirmation
// when needed
func checkLimits(cmd *cobra.Command, req config.GeneratorConfig) (config.Assessment, error) {
	rows := req.RowCount
	assessment, err := config.CheckRowCount(rows, req.Messy, req.Format)
	if err != nil {
		return assessment, err
	}
	if assessment.NeedsConfirm && !assumeYes {
		if err := confirmLargeRun(cmd.InOrStdin(), cmd.OutOrStdout(), stdinIsTerminal(), rows); err != nil {
			return assessment, err
		}
	}
	return assessment, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, cfg.Generator)
	if err != nil {
		return err
	}

	formatName := cfg.Generator.Format
	if cmd.Flags().Changed("format") {
		formatName = format
	}
	req.Format, err = config.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		req.Filename = filename
	}
	dir := cfg.OutputDir
	if cmd.Flags().Changed("output-dir") {
		dir = outputDir
	}
	sqlDialect, err := database.ParseDialect(dialect)
	if err != nil {
		return err
	}

	assessment, err := checkLimits(cmd, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, %s)\n", assessment.Status(), req.Type, req.Format)

	ds, err := newGenerator(cmd).Build(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	wb := export.NewWorkbook(ds)
	path := export.OutputPath(dir, req.Filename, req.Format)
	if err := export.Write(wb, req.Format, path, export.Options{Dialect: sqlDialect}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Dataset written: %s (%d rows)\n", path, len(ds.Rows))
	slog.Info("Dataset exported", "path", path, "type", req.Type, "rows", len(ds.Rows), "generation_id", wb.ID)

	if showReport {
		fmt.Fprintln(out)
		report.Display(out, report.Analyze(ds))
	}

	if upload {
		url, err := uploadExport(cmd, wb.ID, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Uploaded: %s\n", url)
	}

	return nil
}

func uploadExport(cmd *cobra.Command, generationID, path string) (string, error) {
	store, err := storage.New(cmd.Context(), cfg.Storage)
	if err != nil {
		return "", xerrors.NewExportError(xerrors.CodeUploadFailed, "failed to set up storage", err)
	}
	if store == nil {
		return "", xerrors.NewExportError(xerrors.CodeUploadFailed,
			"no storage configured; set storage.type in the config or XCELLAB_STORAGE_TYPE", nil)
	}

	key := storage.ObjectKey(cfg.Storage.S3.Prefix, generationID, path)
	if err := store.Upload(cmd.Context(), path, key); err != nil {
		return "", xerrors.NewExportError(xerrors.CodeUploadFailed, "failed to upload dataset", err)
	}
	return store.URL(key), nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, cfg.Generator)
	if err != nil {
		return err
	}
	total := req.RowCount
	req.RowCount = config.PreviewRowCount(total, previewLimit)

	ds, err := newGenerator(cmd).Build(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to generate preview: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Previewing %d of %d rows (%s)\n\n", req.RowCount, total, req.Type)
	printTable(out, ds.Columns, ds.Rows)

	fmt.Fprintln(out)
	printTasks(out, ds.Tasks)

	if showReport {
		fmt.Fprintln(out)
		report.Display(out, report.Analyze(ds))
	}
	return nil
}

// printTasks lists the practice tasks. Each task already carries its number.
func printTasks(w io.Writer, tasks []string) {
	fmt.Fprintln(w, "Practice tasks:")
	for _, task := range tasks {
		fmt.Fprintf(w, "  %s\n", task)
	}
}

// printTable writes rows as aligned columns. Padded strings are quoted so the
// extra spaces stay visible.
func printTable(w io.Writer, columns []string, rows []schema.Row) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = previewCell(row[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func previewCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val != strings.TrimSpace(val) {
			return strconv.Quote(val)
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
