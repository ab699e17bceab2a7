package core

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFileKnownContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bin")
	content := []byte("mobile evidence payload")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), HashFile(path))
}

func TestHashFileMissingPathReturnsSentinel(t *testing.T) {
	assert.Equal(t, HashNotFound, HashFile(filepath.Join(t.TempDir(), "missing.ab")))
}

func TestHashFileDirectoryReturnsReadError(t *testing.T) {
	assert.Equal(t, HashReadError, HashFile(t.TempDir()))
}
