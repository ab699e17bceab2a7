// Package cli provides the command-line interface for mobiletk.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"mobiletk/internal/config"
	"mobiletk/internal/core"
	"mobiletk/internal/ops"
)

var (
	cfgPath  string
	caseName string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mobiletk",
	Short: "A mobile forensic acquisition console",
	Long: `mobiletk drives adb and libimobiledevice to acquire evidence from
Android and iOS devices into per-case directories, keeping an append-only,
hash-stamped custody journal of every action.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help and exit 0 if no subcommand is provided
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "mobiletk.yaml", "path to the workstation configuration file")
	rootCmd.PersistentFlags().StringVar(&caseName, "case", "", "case to operate on (required for evidence commands)")

	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(caseCmd)
	rootCmd.AddCommand(androidCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(iosCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(ileappCmd)
	rootCmd.AddCommand(aiCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
}

// newSession builds a session from the configuration file. The acquisition
// root is created if absent.
func newSession() (*ops.Session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)
	mgr, err := core.NewManager(cfg.AcquisitionRoot, cfg.Operator, nil, logger)
	if err != nil {
		return nil, err
	}
	runner := core.NewRunner(os.Stdout, logger)
	return ops.NewSession(mgr, runner, cfg, os.Stdout), nil
}

// sessionWithCase builds a session and activates the case named by --case.
// Evidence commands cannot run without one.
func sessionWithCase() (*ops.Session, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	if caseName == "" {
		return nil, fmt.Errorf("no case selected, pass --case <name>: %w", core.ErrNoActiveCase)
	}
	if _, err := s.Cases.Load(caseName); err != nil {
		return nil, err
	}
	return s, nil
}

// checkStartupTools verifies the required device clients are installed and
// says how to fix each missing one.
func checkStartupTools(s *ops.Session) error {
	missing := s.Runner.CheckTools(s.Config.RequiredTools()...)
	if len(missing) == 0 {
		return nil
	}
	for _, name := range missing {
		switch name {
		case s.Config.Tools.ADB:
			fmt.Fprintf(os.Stderr, "missing %s: install Android platform-tools and ensure adb is on PATH\n", name)
		case s.Config.Tools.IDeviceBackup2, s.Config.Tools.IDeviceInfo:
			fmt.Fprintf(os.Stderr, "missing %s: install libimobiledevice utilities\n", name)
		default:
			fmt.Fprintf(os.Stderr, "missing %s\n", name)
		}
	}
	return fmt.Errorf("%d required tool(s) not installed: %w", len(missing), core.ErrToolMissing)
}
