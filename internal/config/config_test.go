package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mobiletk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
acquisition_root: /evidence
operator: J. Doe
tools:
  adb: /opt/platform-tools/adb
  ileapp: /opt/ileapp/ileapp.py
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/evidence", cfg.AcquisitionRoot)
	assert.Equal(t, "J. Doe", cfg.Operator)
	assert.Equal(t, "/opt/platform-tools/adb", cfg.Tools.ADB)
	assert.Equal(t, "/opt/ileapp/ileapp.py", cfg.Tools.ILEAPP)
	// Untouched keys keep their defaults.
	assert.Equal(t, "idevicebackup2", cfg.Tools.IDeviceBackup2)
	assert.Equal(t, "gemini-1.5-pro-latest", cfg.AI.Model)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools: [not, a, map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAPIKeyReadsConfiguredEnvVar(t *testing.T) {
	cfg := Defaults()
	cfg.AI.APIKeyEnv = "MOBILETK_TEST_KEY"
	t.Setenv("MOBILETK_TEST_KEY", "secret")
	assert.Equal(t, "secret", cfg.APIKey())

	cfg.AI.APIKeyEnv = ""
	assert.Empty(t, cfg.APIKey())
}

func TestRequiredToolsExcludesILEAPP(t *testing.T) {
	cfg := Defaults()
	cfg.Tools.ILEAPP = "/opt/ileapp/ileapp.py"
	assert.Equal(t, []string{"adb", "idevicebackup2", "ideviceinfo"}, cfg.RequiredTools())
}
