package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mobiletk/internal/ai"
	"mobiletk/internal/core"
	"mobiletk/internal/export"
	"mobiletk/internal/ops"
	"mobiletk/internal/parse"
	"mobiletk/internal/report"
	"mobiletk/internal/schema"
)

// consoleExec is the operation surface the console loop dispatches to.
// Tests substitute a fake to verify parsing and dispatch without devices.
type consoleExec interface {
	CaseCreate(name string) error
	CaseLoad(name string) error
	CaseList() error
	Status() string

	AndroidBackup(ctx context.Context, pkg string) error
	AndroidPull(ctx context.Context, remotePath string) error
	AndroidLogcat(ctx context.Context) error
	AndroidApps(ctx context.Context) error
	AndroidInfo(ctx context.Context) error
	AndroidDiagnose(ctx context.Context) error
	AndroidLs(ctx context.Context, remotePath string) error
	Decode(ctx context.Context, abPath string) error

	IOSBackup(ctx context.Context) error
	IOSInfo(ctx context.Context) error

	Search(ctx context.Context, keywords []string) error
	ILEAPP(ctx context.Context, backupPath string) error
	AIAnalyze(ctx context.Context, dbPath string) error

	Report() error
	Export(ctx context.Context, recipient string) error
}

const consoleHelp = `Case:
  create <name>        create a new case and make it current
  open <name>          open an existing case
  cases                list cases
  status               show the current case

Android:
  backup [package]     adb backup (full device, or one app without APK)
  pull <remote-path>   copy a file or directory off the device
  logcat               dump the device log buffer
  apps                 list installed packages
  info                 device model, version, connection state
  diagnose             explain device connection problems
  ls [remote-path]     list a device directory (default /sdcard)
  decode <backup.ab>   extract the tar stream from an adb backup

iOS:
  ios-backup           full idevicebackup2 backup
  ios-info             device identity and build information

Analysis:
  search <kw> [kw...]  whole-word keyword search over acquired files
  ileapp <path>        run iLEAPP against an iOS backup
  ai <database.db>     AI query suggestions for an extracted database

Output:
  report               generate the chain of custody PDF
  export [age1...]     bundle the case, optionally encrypted

  help                 show this help
  exit                 leave the console`

// runConsole reads commands line by line, tokenizes them shell-style and
// dispatches. Operation errors are printed, never fatal: one failed
// acquisition must not end the session.
func runConsole(ctx context.Context, exec consoleExec, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "mtk [%s]> ", exec.Status())
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		args, err := parse.SplitArgs(sc.Text())
		if err != nil {
			fmt.Fprintf(out, "input error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		cmd, rest := args[0], args[1:]
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(out, consoleHelp)
			continue
		case "status":
			fmt.Fprintln(out, exec.Status())
			continue
		}

		if err := dispatch(ctx, exec, cmd, rest); err != nil {
			if errors.Is(err, core.ErrNoActiveCase) {
				fmt.Fprintln(out, "No case is open. Use: create <name> or open <name>.")
				continue
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, exec consoleExec, cmd string, args []string) error {
	one := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("%s takes exactly one argument: %w", cmd, core.ErrInvalidInput)
		}
		return args[0], nil
	}
	none := func() error {
		if len(args) != 0 {
			return fmt.Errorf("%s takes no arguments: %w", cmd, core.ErrInvalidInput)
		}
		return nil
	}

	switch cmd {
	case "create":
		name, err := one()
		if err != nil {
			return err
		}
		return exec.CaseCreate(name)
	case "open":
		name, err := one()
		if err != nil {
			return err
		}
		return exec.CaseLoad(name)
	case "cases":
		if err := none(); err != nil {
			return err
		}
		return exec.CaseList()

	case "backup":
		pkg := ""
		if len(args) == 1 {
			pkg = args[0]
		} else if len(args) > 1 {
			return fmt.Errorf("backup takes at most one package name: %w", core.ErrInvalidInput)
		}
		return exec.AndroidBackup(ctx, pkg)
	case "pull":
		remote, err := one()
		if err != nil {
			return err
		}
		return exec.AndroidPull(ctx, remote)
	case "logcat":
		if err := none(); err != nil {
			return err
		}
		return exec.AndroidLogcat(ctx)
	case "apps":
		if err := none(); err != nil {
			return err
		}
		return exec.AndroidApps(ctx)
	case "info":
		if err := none(); err != nil {
			return err
		}
		return exec.AndroidInfo(ctx)
	case "diagnose":
		if err := none(); err != nil {
			return err
		}
		return exec.AndroidDiagnose(ctx)
	case "ls":
		remote := ""
		if len(args) == 1 {
			remote = args[0]
		} else if len(args) > 1 {
			return fmt.Errorf("ls takes at most one path: %w", core.ErrInvalidInput)
		}
		return exec.AndroidLs(ctx, remote)
	case "decode":
		ab, err := one()
		if err != nil {
			return err
		}
		return exec.Decode(ctx, ab)

	case "ios-backup":
		if err := none(); err != nil {
			return err
		}
		return exec.IOSBackup(ctx)
	case "ios-info":
		if err := none(); err != nil {
			return err
		}
		return exec.IOSInfo(ctx)

	case "search":
		if len(args) == 0 {
			return fmt.Errorf("search needs at least one keyword: %w", core.ErrInvalidInput)
		}
		return exec.Search(ctx, args)
	case "ileapp":
		path, err := one()
		if err != nil {
			return err
		}
		return exec.ILEAPP(ctx, path)
	case "ai":
		db, err := one()
		if err != nil {
			return err
		}
		return exec.AIAnalyze(ctx, db)

	case "report":
		if err := none(); err != nil {
			return err
		}
		return exec.Report()
	case "export":
		recipient := ""
		if len(args) == 1 {
			recipient = args[0]
		} else if len(args) > 1 {
			return fmt.Errorf("export takes at most one age recipient: %w", core.ErrInvalidInput)
		}
		return exec.Export(ctx, recipient)
	}
	return fmt.Errorf("unknown command %q, type help", cmd)
}

// consoleApp adapts a session to the console dispatch surface.
type consoleApp struct {
	session   *ops.Session
	assistant *ai.Assistant
	out       io.Writer
}

func (a *consoleApp) CaseCreate(name string) error {
	c, err := a.session.Cases.Create(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created case %q at %s\n", c.Meta.Name, c.Root)
	return nil
}

func (a *consoleApp) CaseLoad(name string) error {
	c, err := a.session.Cases.Load(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Opened case %q\n", c.Meta.Name)
	return nil
}

func (a *consoleApp) CaseList() error {
	names, err := a.session.Cases.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(a.out, "No cases yet.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

func (a *consoleApp) Status() string {
	c, err := a.session.Cases.Current()
	if err != nil {
		return "no case"
	}
	return c.Meta.Name
}

func (a *consoleApp) AndroidBackup(ctx context.Context, pkg string) error {
	_, err := a.session.BackupAndroid(ctx, pkg)
	return err
}

func (a *consoleApp) AndroidPull(ctx context.Context, remotePath string) error {
	_, err := a.session.PullAndroid(ctx, remotePath)
	return err
}

func (a *consoleApp) AndroidLogcat(ctx context.Context) error {
	_, err := a.session.CaptureLogcat(ctx)
	return err
}

func (a *consoleApp) AndroidApps(ctx context.Context) error { return a.session.ListAndroidApps(ctx) }

func (a *consoleApp) AndroidInfo(ctx context.Context) error { return a.session.AndroidInfo(ctx) }

func (a *consoleApp) AndroidDiagnose(ctx context.Context) error {
	_, err := a.session.DiagnoseAndroid(ctx)
	return err
}

func (a *consoleApp) AndroidLs(ctx context.Context, remotePath string) error {
	return a.session.ListRemoteDir(ctx, remotePath)
}

func (a *consoleApp) Decode(ctx context.Context, abPath string) error {
	_, err := a.session.DecodeBackup(ctx, abPath)
	return err
}

func (a *consoleApp) IOSBackup(ctx context.Context) error {
	_, err := a.session.BackupIOS(ctx)
	return err
}

func (a *consoleApp) IOSInfo(ctx context.Context) error { return a.session.IOSInfo(ctx) }

func (a *consoleApp) Search(ctx context.Context, keywords []string) error {
	_, err := a.session.SearchKeywords(ctx, keywords)
	return err
}

func (a *consoleApp) ILEAPP(ctx context.Context, backupPath string) error {
	_, err := a.session.RunILEAPP(ctx, backupPath)
	return err
}

func (a *consoleApp) AIAnalyze(ctx context.Context, dbPath string) error {
	return a.session.AnalyzeDatabase(ctx, a.assistant, dbPath)
}

func (a *consoleApp) Report() error {
	c, err := a.session.Cases.Current()
	if err != nil {
		return err
	}
	sum, err := report.Generate(c, a.session.Config.Operator, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Report written to %s (%d artifact(s))\n", sum.Path, len(sum.Artifacts))
	return nil
}

func (a *consoleApp) Export(ctx context.Context, recipient string) error {
	if recipient != "" {
		if err := export.ValidateRecipient(recipient); err != nil {
			return err
		}
	}
	c, err := a.session.Cases.Current()
	if err != nil {
		return err
	}
	now := time.Now()
	c.Journal.Record("Export", "Case export started")
	meta, err := export.BundleCase(ctx, c.Root, c.Meta.Name, ".", now, recipient)
	if err != nil {
		c.Journal.Record("Export", fmt.Sprintf("Export failed: %v", err))
		return err
	}
	c.Journal.Record("Export", fmt.Sprintf("Exported %d file(s) to %s", meta.FileCount, meta.Path))
	doc := schema.NewExportOutput(c.Meta.Name, meta, recipient != "", now)
	fmt.Fprintf(a.out, "Exported %s (%d bytes)\n", doc.ArchivePath, doc.BytesWritten)
	return nil
}

// consoleCmd starts the interactive console.
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive acquisition console",
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
		if caseName != "" {
			if _, err := s.Cases.Load(caseName); err != nil {
				return err
			}
		}
		assistant := ai.New(s.Config.APIKey(), s.Config.AI.Model, s.Config.AI.Endpoint)
		app := &consoleApp{session: s, assistant: assistant, out: os.Stdout}
		return runConsole(cmd.Context(), app, os.Stdin, os.Stdout)
	},
}
