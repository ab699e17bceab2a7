package ops

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mobiletk/internal/core"
)

// abHeaderSize is the length of the Android backup file header preceding the
// embedded tar stream: "ANDROID BACKUP\n", format version, compression flag
// and encryption algorithm lines.
const abHeaderSize = 24

// DecodeBackup extracts the tar stream embedded in an unencrypted .ab
// backup into the case's decoded directory. The header is skipped with dd
// and the remainder streamed into tar; compressed backups extract with -z,
// and backups taken with compression off fall back to a plain -x pass.
// Encrypted backups fail both and are reported as undecodable.
func (s *Session) DecodeBackup(ctx context.Context, abPath string) (string, error) {
	c, err := s.requireCase()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abPath); err != nil {
		return "", fmt.Errorf("backup file %s: %w", abPath, err)
	}
	outDir, err := c.SubDir(DirDecoded)
	if err != nil {
		return "", err
	}

	c.Journal.Record("Backup Decode", fmt.Sprintf("Decoding %s", abPath))
	skip := []string{"dd", "if=" + abPath, "bs=1", "skip=" + fmt.Sprint(abHeaderSize)}

	diagGz, errGz := s.Runner.Pipeline(ctx, skip, []string{"tar", "-zxf", "-", "-C", outDir})
	if errGz == nil {
		c.Journal.Record("Backup Decode", fmt.Sprintf("Decoded into %s", outDir))
		return outDir, nil
	}

	s.infof("Compressed extraction failed, retrying as uncompressed backup.")
	diagPlain, errPlain := s.Runner.Pipeline(ctx, skip, []string{"tar", "-xf", "-", "-C", outDir})
	if errPlain == nil {
		c.Journal.Record("Backup Decode", fmt.Sprintf("Decoded (uncompressed) into %s", outDir))
		return outDir, nil
	}

	c.Journal.Record("Backup Decode", "Decode failed, backup may be encrypted or truncated")
	return "", fmt.Errorf("decode %s: gzip pass: %v (%s); plain pass: %v (%s): %w",
		abPath, errGz, strings.TrimSpace(diagGz), errPlain, strings.TrimSpace(diagPlain), core.ErrToolFailed)
}
