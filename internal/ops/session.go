// Package ops implements the acquisition and analysis operations the
// mobiletk console exposes: Android and iOS backups, file pulls, backup
// decoding, keyword search and iLEAPP handoff. Every operation requires an
// active case and records what it did in the case journal.
package ops

import (
	"fmt"
	"io"
	"os"

	"mobiletk/internal/config"
	"mobiletk/internal/core"
)

// Evidence category directories under a case root. Created lazily by the
// first operation that produces output for them, so an untouched case stays
// an empty directory plus its journal.
const (
	DirAndroid = "Android_Acquisition"
	DirIOS     = "iOS_Acquisition"
	DirDecoded = "Android_Decoded"
	DirILEAPP  = "iLEAPP_Reports"
	DirPulled  = "Pulled_Files"
)

// Session ties the case manager, the tool runner and the workstation
// configuration together for one console run.
type Session struct {
	Cases  *core.Manager
	Runner *core.Runner
	Config *config.Config
	Out    io.Writer
}

// NewSession builds a session writing operator-facing messages to out.
func NewSession(cases *core.Manager, runner *core.Runner, cfg *config.Config, out io.Writer) *Session {
	if out == nil {
		out = os.Stdout
	}
	return &Session{Cases: cases, Runner: runner, Config: cfg, Out: out}
}

func (s *Session) infof(format string, args ...any) {
	fmt.Fprintf(s.Out, format+"\n", args...)
}

// requireCase is the gate in front of every evidence operation.
func (s *Session) requireCase() (*core.Case, error) {
	return s.Cases.Current()
}
