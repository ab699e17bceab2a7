package ops

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobiletk/internal/core"
)

func TestOperationsRequireActiveCase(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.BackupAndroid(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrNoActiveCase)
	_, err = s.PullAndroid(context.Background(), "/sdcard/x")
	assert.ErrorIs(t, err, core.ErrNoActiveCase)
	_, err = s.DecodeBackup(context.Background(), "x.ab")
	assert.ErrorIs(t, err, core.ErrNoActiveCase)
}

func TestBackupAndroidFullJournalsArtifactHash(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	dest, err := s.BackupAndroid(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "full_backup.ab", filepath.Base(dest))
	assert.Contains(t, dest, DirAndroid)

	text := journalText(t, s)
	assert.Contains(t, text, "[ADB Backup] Full backup started")
	assert.Contains(t, text, "Backup finished: full_backup.ab")
	assert.Contains(t, text, "Hachage (SHA256) : "+core.HashFile(dest))
}

func TestBackupAndroidPackageNameIsSanitized(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	dest, err := s.BackupAndroid(context.Background(), "com.example/../evil app")
	require.NoError(t, err)
	base := filepath.Base(dest)
	assert.True(t, strings.HasSuffix(base, ".ab"))
	assert.NotContains(t, base, "/")
	assert.NotContains(t, base, " ")
}

func TestPullAndroidJournalsDestination(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	dest, err := s.PullAndroid(context.Background(), "/sdcard/DCIM/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", filepath.Base(dest))
	assert.Contains(t, dest, DirPulled)
	assert.Contains(t, journalText(t, s), "Pulled \"/sdcard/DCIM/photo.jpg\"")
}

func TestPullAndroidEmptyPathRejected(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Cases.Create("CASE-001")
	require.NoError(t, err)

	_, err = s.PullAndroid(context.Background(), "   ")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestDiagnoseAndroidParsesState(t *testing.T) {
	s, out := newTestSession(t)

	state, err := s.DiagnoseAndroid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateDevice, state)
	assert.Contains(t, out.String(), "authorized")
}

func TestParseDeviceState(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want DeviceState
	}{
		{"none", "List of devices attached\n", StateNone},
		{"authorized", "List of devices attached\nABC\tdevice\n", StateDevice},
		{"unauthorized", "List of devices attached\nABC\tunauthorized\n", StateUnauthorized},
		{"offline", "List of devices attached\nABC\toffline\n", StateOffline},
		{"unauthorized outranks offline", "List of devices attached\nA\toffline\nB\tunauthorized\n", StateUnauthorized},
		{"any authorized wins", "List of devices attached\nA\tunauthorized\nB\tdevice\n", StateDevice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDeviceState(tt.out))
		})
	}
}
