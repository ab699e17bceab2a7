// Package config loads tool paths and workstation settings for mobiletk.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tools names the external binaries mobiletk drives. Each value is either a
// bare name resolved through PATH or an absolute path. ILEAPP is empty by
// default because iLEAPP is an optional analysis stage, not a hard
// requirement of the console.
type Tools struct {
	ADB            string `yaml:"adb"`
	IDeviceBackup2 string `yaml:"idevicebackup2"`
	IDeviceInfo    string `yaml:"ideviceinfo"`
	ILEAPP         string `yaml:"ileapp"`
}

// AI configures the optional generative assistant. The API key itself never
// lives in the file, only the name of the environment variable holding it.
type AI struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	Endpoint  string `yaml:"endpoint"`
}

// Config is the full workstation configuration.
type Config struct {
	AcquisitionRoot string `yaml:"acquisition_root"`
	Operator        string `yaml:"operator"`
	Tools           Tools  `yaml:"tools"`
	AI              AI     `yaml:"ai"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		AcquisitionRoot: "Acquisitions",
		Tools: Tools{
			ADB:            "adb",
			IDeviceBackup2: "idevicebackup2",
			IDeviceInfo:    "ideviceinfo",
		},
		AI: AI{
			APIKeyEnv: "GOOGLE_API_KEY",
			Model:     "gemini-1.5-pro-latest",
			Endpoint:  "https://generativelanguage.googleapis.com/v1beta/models",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error so a fresh workstation runs with stock settings.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// APIKey resolves the assistant key from the configured environment
// variable. Empty means the assistant is not available.
func (c *Config) APIKey() string {
	if c.AI.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.AI.APIKeyEnv)
}

// RequiredTools lists the binaries every session needs before acquisition
// commands can run. iLEAPP is excluded; its absence only disables one
// command.
func (c *Config) RequiredTools() []string {
	return []string{c.Tools.ADB, c.Tools.IDeviceBackup2, c.Tools.IDeviceInfo}
}
