package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// iosCmd groups iOS acquisition subcommands.
var iosCmd = &cobra.Command{
	Use:   "ios",
	Short: "Acquire evidence from a connected iOS device",
}

var iosBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Take a full idevicebackup2 backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		if err := checkStartupTools(s); err != nil {
			return err
		}
		dir, err := s.BackupIOS(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written under %s\n", dir)
		return nil
	},
}

var iosInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show identity and build information of the attached device",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		if err := checkStartupTools(s); err != nil {
			return err
		}
		return s.IOSInfo(context.Background())
	},
}

func init() {
	iosCmd.AddCommand(iosBackupCmd)
	iosCmd.AddCommand(iosInfoCmd)
}
