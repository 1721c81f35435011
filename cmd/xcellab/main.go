package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koba/xcellab/internal/config"
	xerrors "github.com/koba/xcellab/internal/errors"
	"github.com/koba/xcellab/internal/schema"
)

var (
	configFile string
	envFile    string
	logLevel   string

	// cfg is the effective configuration, loaded before every command runs
	cfg *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "xcellab",
	Short:             "Messy practice dataset generator",
	Long:              `Generate fake tabular datasets with configurable messiness for spreadsheet practice.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List dataset types and difficulty levels",
	Long:  `List the built-in dataset types with their columns, and the noise settings of each difficulty level.`,
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(inspectCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	loaded, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	cfg = loaded

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Debug("Configuration loaded", "config_file", configFile, "output_dir", cfg.OutputDir)
	return nil
}

// newLogger builds the slog handler selected by the log config
func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, xerrors.NewConfigError(fmt.Sprintf("invalid log level: %s", lc.Level), err)
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "=== Dataset Types ===")
	fmt.Fprintln(out)
	for _, t := range schema.DatasetTypes {
		cols := schema.PresetColumns(t)
		fmt.Fprintf(out, "%s\n", t)
		if t == schema.DatasetCustom {
			fmt.Fprintln(out, "  Columns: from --schema or the suggest command")
			fmt.Fprintln(out)
			continue
		}
		if len(cols) == 0 {
			fmt.Fprintln(out, "  Columns: none (no preset)")
			fmt.Fprintln(out)
			continue
		}

		names := make([]string, len(cols))
		for i, col := range cols {
			names[i] = fmt.Sprintf("%s (%s)", col.Name, col.Type)
		}
		fmt.Fprintf(out, "  Columns: %s\n", strings.Join(names, ", "))
		if derived := schema.DerivedColumns(t); len(derived) > 0 {
			fmt.Fprintf(out, "  Derived: %s\n", strings.Join(derived, ", "))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "=== Difficulty Levels ===")
	fmt.Fprintln(out)
	for _, d := range []config.Difficulty{config.DifficultyBeginner, config.DifficultyIntermediate, config.DifficultyAdvanced} {
		m := d.Apply(config.MessyConfig{})
		fmt.Fprintf(out, "%-13s missing %g%%, duplicates %g%%, spaces %t, casing %t, wrong types %t, invalid formats %t\n",
			d, m.MissingPct, m.DuplicatePct, m.ExtraSpaces, m.MixedCasing, m.WrongTypes, m.InvalidFormats)
	}
	fmt.Fprintf(out, "%-13s set your own with --missing, --duplicates and the noise flags\n", config.DifficultyCustom)
	return nil
}
