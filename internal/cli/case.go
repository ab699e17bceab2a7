package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// caseCmd groups case lifecycle subcommands.
var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Create and list acquisition cases",
}

var caseCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new case directory with a fresh custody journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		c, err := s.Cases.Create(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created case %q at %s\n", c.Meta.Name, c.Root)
		return nil
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing cases under the acquisition root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		names, err := s.Cases.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No cases yet.")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	caseCmd.AddCommand(caseCreateCmd)
	caseCmd.AddCommand(caseListCmd)
}
