package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koba/xcellab/internal/schema"
	"github.com/koba/xcellab/internal/suggest"
)

var suggestOut string

var suggestCmd = &cobra.Command{
	Use:   "suggest <description>",
	Short: "Suggest a custom column schema from a description",
	Long: `Ask a language model for up to 8 columns that fit a short description and
save them as a schema file for the CUSTOM dataset type.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestOut, "out", "", "Schema file to write (default from config, or schema.yaml)")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return fmt.Errorf("description must not be empty")
	}

	target := suggestOut
	if target == "" {
		target = cfg.Generator.SchemaFile
	}
	if target == "" {
		target = "schema.yaml"
	}

	s, err := suggest.New(cfg.Suggest)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Suggesting columns for %q...\n", description)

	columns, err := s.Suggest(cmd.Context(), description)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		fmt.Fprintf(out, "No columns suggested; %s left unchanged\n", target)
		return nil
	}

	if err := schema.SaveColumns(target, columns); err != nil {
		return fmt.Errorf("failed to save schema: %w", err)
	}

	for _, col := range columns {
		fmt.Fprintf(out, "  %-24s %s\n", col.Name, col.Type)
	}
	fmt.Fprintf(out, "Schema written: %s (use --type custom --schema %s)\n", target, target)
	return nil
}
