package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mobiletk/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the chain of custody PDF for the case",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		c, err := s.Cases.Current()
		if err != nil {
			return err
		}
		sum, err := report.Generate(c, s.Config.Operator, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d artifact(s))\n", sum.Path, len(sum.Artifacts))
		return nil
	},
}
