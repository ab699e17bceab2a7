package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mobiletk/internal/ai"
)

var searchCmd = &cobra.Command{
	Use:   "search <keyword> [keyword...]",
	Short: "Search acquired text files for whole-word keyword matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		_, err = s.SearchKeywords(context.Background(), args)
		return err
	},
}

var ileappCmd = &cobra.Command{
	Use:   "ileapp <backup-path>",
	Short: "Run iLEAPP against an iOS backup and collect the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		outDir, err := s.RunILEAPP(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report under %s\n", outDir)
		return nil
	},
}

var aiCmd = &cobra.Command{
	Use:   "ai <database.db>",
	Short: "Ask the AI assistant which queries to run against an extracted SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		assistant := ai.New(s.Config.APIKey(), s.Config.AI.Model, s.Config.AI.Endpoint)
		return s.AnalyzeDatabase(context.Background(), assistant, args[0])
	},
}
