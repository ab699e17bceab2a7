package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backupApp string

// androidCmd groups Android acquisition subcommands.
var androidCmd = &cobra.Command{
	Use:   "android",
	Short: "Acquire evidence from a connected Android device",
}

var androidBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Take an adb backup (full device, or one app with --app)",
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
		dest, err := s.BackupAndroid(context.Background(), backupApp)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", dest)
		return nil
	},
}

var androidPullCmd = &cobra.Command{
	Use:   "pull <remote-path>",
	Short: "Pull a file or directory off the device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		if err := checkStartupTools(s); err != nil {
			return err
		}
		dest, err := s.PullAndroid(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pulled to %s\n", dest)
		return nil
	},
}

var androidLogcatCmd = &cobra.Command{
	Use:   "logcat",
	Short: "Dump the device log buffer into the case",
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
		dest, err := s.CaptureLogcat(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Log written to %s\n", dest)
		return nil
	},
}

var androidAppsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed packages on the device",
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
		return s.ListAndroidApps(context.Background())
	},
}

var androidInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show model, Android version and connection state",
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
		return s.AndroidInfo(context.Background())
	},
}

var androidDiagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Explain why the device is not usable for acquisition",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		if err := checkStartupTools(s); err != nil {
			return err
		}
		_, err = s.DiagnoseAndroid(context.Background())
		return err
	},
}

var androidLsCmd = &cobra.Command{
	Use:   "ls [remote-path]",
	Short: "List a directory on the device (default /sdcard)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		if err := checkStartupTools(s); err != nil {
			return err
		}
		remote := ""
		if len(args) == 1 {
			remote = args[0]
		}
		return s.ListRemoteDir(context.Background(), remote)
	},
}

// decodeCmd is top level: decoding works on a file, not on a live device.
var decodeCmd = &cobra.Command{
	Use:   "decode <backup.ab>",
	Short: "Extract the tar stream from an unencrypted adb backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionWithCase()
		if err != nil {
			return err
		}
		defer s.Cases.Close()
		outDir, err := s.DecodeBackup(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Decoded into %s\n", outDir)
		return nil
	},
}

func init() {
	androidBackupCmd.Flags().StringVar(&backupApp, "app", "", "backup only this package (APK excluded)")

	androidCmd.AddCommand(androidBackupCmd)
	androidCmd.AddCommand(androidPullCmd)
	androidCmd.AddCommand(androidLogcatCmd)
	androidCmd.AddCommand(androidAppsCmd)
	androidCmd.AddCommand(androidInfoCmd)
	androidCmd.AddCommand(androidDiagnoseCmd)
	androidCmd.AddCommand(androidLsCmd)
}
