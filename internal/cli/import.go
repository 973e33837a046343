package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seenjeem-admin/internal/app"
	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/spreadsheet"
)

// NewImportCmd reconciles a spreadsheet (or JSON rows file) against the catalog.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		kind   string
		opts   app.ImportOptions
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import main categories, sub-categories or questions from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := domain.ParseImportKind(kind)
			if err != nil {
				return err
			}
			summary, err := runImport(cmd.Context(), *configPath, k, args[0], opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			_, err = fmt.Fprintln(out, summary.Message())
			return err
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "main-categories, sub-categories or questions")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "reconcile without writing")
	cmd.Flags().BoolVar(&opts.TrackCreated, "track-created", false, "let later rows see entities created earlier in the file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full summary as JSON")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func runImport(ctx context.Context, configPath string, kind domain.ImportKind, path string, opts app.ImportOptions) (domain.ImportSummary, error) {
	rows, err := readRowsFile(path)
	if err != nil {
		return domain.ImportSummary{}, err
	}

	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return domain.ImportSummary{}, err
	}
	b, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return domain.ImportSummary{}, err
	}
	defer b.Close()

	return b.importer.Import(ctx, kind, rows, opts)
}

// readRowsFile reads .xlsx workbooks and .json row arrays.
func readRowsFile(path string) ([]app.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeJSONRows(f)
	}
	rows, err := spreadsheet.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("Error reading file: %w", err)
	}
	return rows, nil
}

func decodeJSONRows(r io.Reader) ([]app.RawRow, error) {
	var rows []app.RawRow
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
