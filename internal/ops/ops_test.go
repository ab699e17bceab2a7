package ops

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mobiletk/internal/config"
	"mobiletk/internal/core"
)

// fakeADB is a stand-in for the adb client: backup writes bytes to the -f
// target, pull writes to the destination argument, devices prints a fixed
// table. Enough to exercise the session logic without a handset.
const fakeADB = `#!/bin/sh
cmd="$1"
case "$cmd" in
backup)
  shift
  out=""
  while [ $# -gt 0 ]; do
    if [ "$1" = "-f" ]; then out="$2"; fi
    shift
  done
  printf 'fake backup payload' > "$out"
  ;;
pull)
  printf 'pulled bytes' > "$3"
  ;;
devices)
  echo "List of devices attached"
  printf 'EMU0001\tdevice\n'
  ;;
shell)
  echo "shell output"
  ;;
esac
exit 0
`

func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	adb := filepath.Join(dir, "adb")
	require.NoError(t, os.WriteFile(adb, []byte(fakeADB), 0o755))

	logger := log.New(io.Discard, "", 0)
	mgr, err := core.NewManager(filepath.Join(dir, "Acquisitions"), "tester", nil, logger)
	require.NoError(t, err)

	var console bytes.Buffer
	cfg := config.Defaults()
	cfg.Tools.ADB = adb
	return NewSession(mgr, core.NewRunner(&console, logger), cfg, &console), &console
}

func journalText(t *testing.T, s *Session) string {
	t.Helper()
	c, err := s.Cases.Current()
	require.NoError(t, err)
	text, err := c.Journal.Contents()
	require.NoError(t, err)
	return text
}
