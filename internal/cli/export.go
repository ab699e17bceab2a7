package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mobiletk/internal/export"
	"mobiletk/internal/schema"
)

var (
	exportOut  string
	encryptAge string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bundle the case into a portable archive for handoff",
	Long: `The export command archives the whole case directory, journal included,
into a tar.gz under the output directory, optionally encrypted with age
public key encryption, and prints a JSON result document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if encryptAge != "" {
			if err := export.ValidateRecipient(encryptAge); err != nil {
				return fmt.Errorf("invalid --encrypt-age: %w", err)
			}
		}
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		c, err := s.Cases.Current()
		if err != nil {
			return err
		}

		now := time.Now()
		c.Journal.Record("Export", "Case export started")
		meta, err := export.BundleCase(context.Background(), c.Root, c.Meta.Name, exportOut, now, encryptAge)
		if err != nil {
			c.Journal.Record("Export", fmt.Sprintf("Export failed: %v", err))
			return err
		}
		c.Journal.Record("Export", fmt.Sprintf("Exported %d file(s) to %s", meta.FileCount, meta.Path))

		out := schema.NewExportOutput(c.Meta.Name, meta, encryptAge != "", now)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory for the archive")
	exportCmd.Flags().StringVar(&encryptAge, "encrypt-age", "", "Age public key for encryption (must start with age1)")
}
