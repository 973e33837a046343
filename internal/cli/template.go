package cli

import (
	"os"

	"github.com/spf13/cobra"

	"seenjeem-admin/internal/domain"
	"seenjeem-admin/internal/spreadsheet"
)

// NewTemplateCmd writes an import template workbook.
func NewTemplateCmd() *cobra.Command {
	var kind, out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the spreadsheet template for an import kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := domain.ParseImportKind(kind)
			if err != nil {
				return err
			}
			sheet, err := spreadsheet.Template(k)
			if err != nil {
				return err
			}
			if out == "" {
				out = spreadsheet.TemplateFilename(k)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := spreadsheet.Write(f, sheet); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "main-categories, sub-categories or questions")
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to <kind>_template.xlsx)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
