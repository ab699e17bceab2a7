package ops

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobiletk/internal/core"
)

func requireDecodeTools(t *testing.T, s *Session) {
	t.Helper()
	if missing := s.Runner.CheckTools("dd", "tar"); len(missing) > 0 {
		t.Skipf("decode tools not installed: %v", missing)
	}
}

// writeAB builds a minimal unencrypted .ab file: a header padded to the
// standard 24 bytes followed by a tar stream holding one file, gzipped when
// compressed is set.
func writeAB(t *testing.T, path string, compressed bool) {
	t.Helper()

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	content := []byte("decoded evidence")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "apps/com.example/f/data.txt",
		Mode: 0o644,
		Size: int64(len(content)),
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	payload := tarBuf.Bytes()
	if compressed {
		var gz bytes.Buffer
		zw := gzip.NewWriter(&gz)
		_, err = zw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		payload = gz.Bytes()
	}

	header := make([]byte, abHeaderSize)
	copy(header, []byte("ANDROID BACKUP\n5\n1\nnone\n"))
	require.NoError(t, os.WriteFile(path, append(header, payload...), 0o600))
}

func TestDecodeBackupCompressed(t *testing.T) {
	s, _ := newTestSession(t)
	requireDecodeTools(t, s)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	ab := filepath.Join(t.TempDir(), "full_backup.ab")
	writeAB(t, ab, true)

	outDir, err := s.DecodeBackup(context.Background(), ab)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(outDir, "apps", "com.example", "f", "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "decoded evidence", string(b))
	assert.Contains(t, journalText(t, s), "[Backup Decode] Decoded into")
}

func TestDecodeBackupUncompressedFallback(t *testing.T) {
	s, _ := newTestSession(t)
	requireDecodeTools(t, s)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	ab := filepath.Join(t.TempDir(), "plain.ab")
	writeAB(t, ab, false)

	outDir, err := s.DecodeBackup(context.Background(), ab)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "apps", "com.example", "f", "data.txt"))
	assert.Contains(t, journalText(t, s), "Decoded (uncompressed)")
}

func TestDecodeBackupCorruptFailsBothPasses(t *testing.T) {
	s, _ := newTestSession(t)
	requireDecodeTools(t, s)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	// Larger than a pipe buffer so dd is still writing when tar gives up
	// on both passes.
	ab := filepath.Join(t.TempDir(), "corrupt.ab")
	require.NoError(t, os.WriteFile(ab, bytes.Repeat([]byte{0xde, 0xad}, 128*1024), 0o600))

	_, err = s.DecodeBackup(context.Background(), ab)
	require.ErrorIs(t, err, core.ErrToolFailed)
	assert.Contains(t, journalText(t, s), "Decode failed")
}

func TestDecodeBackupMissingInput(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	_, err = s.DecodeBackup(context.Background(), filepath.Join(t.TempDir(), "nope.ab"))
	assert.Error(t, err)
}
