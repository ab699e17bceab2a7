package ops

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mobiletk/internal/core"
)

// DeviceState summarizes what `adb devices` reports about the attached
// handset.
type DeviceState int

const (
	StateNone DeviceState = iota
	StateDevice
	StateUnauthorized
	StateOffline
)

func (s DeviceState) String() string {
	switch s {
	case StateDevice:
		return "device connected and authorized"
	case StateUnauthorized:
		return "device connected but not authorized, confirm the RSA prompt on the handset"
	case StateOffline:
		return "device offline, reconnect the cable or restart adb"
	default:
		return "no device detected"
	}
}

// BackupAndroid runs an adb backup into the case's Android acquisition
// directory. With pkg empty a full backup (apps, APKs, shared storage) is
// taken; otherwise only the named package, without its APK. adb exits zero
// even when the user cancels on the handset, so success is judged by the
// backup file existing afterwards, and its hash is stamped into the journal.
func (s *Session) BackupAndroid(ctx context.Context, pkg string) (string, error) {
	c, err := s.requireCase()
	if err != nil {
		return "", err
	}
	dir, err := c.SubDir(DirAndroid)
	if err != nil {
		return "", err
	}

	var dest string
	var args []string
	if pkg == "" {
		dest = filepath.Join(dir, "full_backup.ab")
		args = []string{"backup", "-f", dest, "-all", "-apk", "-shared"}
		c.Journal.Record("ADB Backup", "Full backup started")
	} else {
		dest = filepath.Join(dir, core.SanitizeName(pkg)+".ab")
		args = []string{"backup", "-f", dest, "-noapk", pkg}
		c.Journal.Record("ADB Backup", fmt.Sprintf("Backup of package %q started", pkg))
	}
	s.infof("Confirm the backup on the device screen now.")

	if _, err := s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, args...); err != nil {
		c.Journal.Record("ADB Backup", fmt.Sprintf("Backup failed: %v", err))
		return "", err
	}

	info, err := os.Stat(dest)
	if err != nil || info.Size() == 0 {
		c.Journal.Record("ADB Backup", "Backup produced no file, likely refused on the device")
		return "", fmt.Errorf("adb backup produced no output at %s: %w", dest, core.ErrToolFailed)
	}
	c.Journal.RecordArtifact("ADB Backup", fmt.Sprintf("Backup finished: %s (%d bytes)", filepath.Base(dest), info.Size()), dest)
	return dest, nil
}

// PullAndroid copies a file or directory off the device into the case's
// pulled-files directory. The destination name is the device-side base name,
// so pulls of distinct paths with the same base overwrite; investigators
// rename between pulls when that matters.
func (s *Session) PullAndroid(ctx context.Context, remotePath string) (string, error) {
	c, err := s.requireCase()
	if err != nil {
		return "", err
	}
	remotePath = strings.TrimSpace(remotePath)
	if remotePath == "" {
		return "", fmt.Errorf("remote path: %w", core.ErrInvalidInput)
	}
	dir, err := c.SubDir(DirPulled)
	if err != nil {
		return "", err
	}
	// Device paths are always slash-separated regardless of host OS.
	dest := filepath.Join(dir, path.Base(remotePath))

	c.Journal.Record("ADB Pull", fmt.Sprintf("Pull of %q started", remotePath))
	if _, err := s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, "pull", remotePath, dest); err != nil {
		c.Journal.Record("ADB Pull", fmt.Sprintf("Pull of %q failed: %v", remotePath, err))
		return "", err
	}

	info, err := os.Stat(dest)
	if err != nil {
		c.Journal.Record("ADB Pull", fmt.Sprintf("Pull of %q produced no local copy", remotePath))
		return "", fmt.Errorf("pull produced no output at %s: %w", dest, core.ErrToolFailed)
	}
	if info.IsDir() {
		c.Journal.Record("ADB Pull", fmt.Sprintf("Pulled directory %q to %s", remotePath, dest))
	} else {
		c.Journal.RecordArtifact("ADB Pull", fmt.Sprintf("Pulled %q to %s", remotePath, filepath.Base(dest)), dest)
	}
	return dest, nil
}

// CaptureLogcat dumps the device's current log buffer to logcat.txt in the
// Android acquisition directory.
func (s *Session) CaptureLogcat(ctx context.Context) (string, error) {
	c, err := s.requireCase()
	if err != nil {
		return "", err
	}
	dir, err := c.SubDir(DirAndroid)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, "logcat.txt")

	c.Journal.Record("ADB Logcat", "Log capture started")
	if err := s.Runner.RunToFile(ctx, dest, s.Config.Tools.ADB, "logcat", "-d"); err != nil {
		c.Journal.Record("ADB Logcat", fmt.Sprintf("Log capture failed: %v", err))
		return "", err
	}
	c.Journal.RecordArtifact("ADB Logcat", "Log capture finished: logcat.txt", dest)
	return dest, nil
}

// ListAndroidApps prints the installed package list.
func (s *Session) ListAndroidApps(ctx context.Context) error {
	c, err := s.requireCase()
	if err != nil {
		return err
	}
	_, err = s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, "shell", "pm", "list", "packages")
	return err
}

// AndroidInfo prints connection state, model and Android version of the
// attached device.
func (s *Session) AndroidInfo(ctx context.Context) error {
	c, err := s.requireCase()
	if err != nil {
		return err
	}
	if _, err := s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, "devices"); err != nil {
		return err
	}
	if _, err := s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, "shell", "getprop", "ro.product.model"); err != nil {
		return err
	}
	_, err = s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, "shell", "getprop", "ro.build.version.release")
	return err
}

// ListRemoteDir lists a directory on the device. An empty path defaults to
// /sdcard.
func (s *Session) ListRemoteDir(ctx context.Context, remotePath string) error {
	c, err := s.requireCase()
	if err != nil {
		return err
	}
	if strings.TrimSpace(remotePath) == "" {
		remotePath = "/sdcard"
	}
	_, err = s.Runner.Run(ctx, c.Journal, s.Config.Tools.ADB, "shell", "ls", "-la", remotePath)
	return err
}

// DiagnoseAndroid interprets `adb devices` output and tells the operator
// what to fix. Diagnosis needs no case because it touches no evidence.
func (s *Session) DiagnoseAndroid(ctx context.Context) (DeviceState, error) {
	out, err := s.Runner.Run(ctx, nil, s.Config.Tools.ADB, "devices")
	if err != nil {
		return StateNone, err
	}
	state := parseDeviceState(out)
	s.infof("Diagnosis: %s", state)
	return state, nil
}

// parseDeviceState scans the `adb devices` table. The first authorized
// device wins; otherwise the worst observed state is reported.
func parseDeviceState(out string) DeviceState {
	state := StateNone
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		switch fields[1] {
		case "device":
			return StateDevice
		case "unauthorized":
			state = StateUnauthorized
		case "offline":
			if state == StateNone {
				state = StateOffline
			}
		}
	}
	return state
}
