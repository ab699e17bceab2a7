package ops

import (
	"context"
	"fmt"
	"os"

	"mobiletk/internal/core"
)

// BackupIOS takes a full idevicebackup2 backup into the case's iOS
// acquisition directory. idevicebackup2 writes a per-device subdirectory
// under the target, so the journal records the directory rather than a
// single artifact hash.
func (s *Session) BackupIOS(ctx context.Context) (string, error) {
	c, err := s.requireCase()
	if err != nil {
		return "", err
	}
	dir, err := c.SubDir(DirIOS)
	if err != nil {
		return "", err
	}

	c.Journal.Record("iOS Backup", "Full backup started")
	s.infof("If the device asks to trust this computer, accept before the backup can proceed.")
	if _, err := s.Runner.Run(ctx, c.Journal, s.Config.Tools.IDeviceBackup2, "backup", "--full", dir); err != nil {
		c.Journal.Record("iOS Backup", fmt.Sprintf("Backup failed: %v", err))
		return "", err
	}

	if empty, err := dirIsEmpty(dir); err != nil || empty {
		c.Journal.Record("iOS Backup", "Backup produced no files")
		return "", fmt.Errorf("idevicebackup2 produced no output in %s: %w", dir, core.ErrToolFailed)
	}
	c.Journal.Record("iOS Backup", fmt.Sprintf("Backup finished under %s", dir))
	return dir, nil
}

// IOSInfo prints device identity and build information for the attached
// iOS device.
func (s *Session) IOSInfo(ctx context.Context) error {
	c, err := s.requireCase()
	if err != nil {
		return err
	}
	_, err = s.Runner.Run(ctx, c.Journal, s.Config.Tools.IDeviceInfo)
	return err
}

func dirIsEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
