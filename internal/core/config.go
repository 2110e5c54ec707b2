package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

const (
	configDirName  = ".odsctl"
	configFileName = "config.json"
)

// Duration wraps time.Duration so config files can spell durations as
// strings ("24h", "300s").
type Duration struct {
	time.Duration
}

// MarshalJSON renders the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Config is the immutable runtime configuration, constructed once by
// LoadConfig and passed into each component. Environment overrides are
// applied exactly once inside LoadConfig; no component reads ambient
// environment state afterwards.
type Config struct {
	CompartmentID          string   `json:"compartmentId"`
	ConnectorCompartmentID string   `json:"connectorCompartmentId,omitempty"`
	CommonUserPrefix       string   `json:"commonUserPrefix"`
	RootNameSuffix         string   `json:"rootNameSuffix"`
	SecretsDir             string   `json:"secretsDir"`
	OCIBin                 string   `json:"ociBin"`
	OCIProfile             string   `json:"ociProfile,omitempty"`
	OCIConfigFile          string   `json:"ociConfigFile,omitempty"`
	DefaultStates          string   `json:"defaultStates"`
	ConnectorExcludes      []string `json:"connectorExcludes,omitempty"`
	SnapshotMaxAge         Duration `json:"snapshotMaxAge"`
	CallTimeout            Duration `json:"callTimeout"`
	ConnectorBundleVersion string   `json:"connectorBundleVersion,omitempty"`
	LogLevel               string   `json:"logLevel,omitempty"`

	// Captured from the process environment at load time; never persisted.
	EnvUser   string `json:"-"`
	EnvSecret string `json:"-"`

	configDir string
}

// DefaultConfigDir returns ~/.odsctl, honoring the ODSCTL_CONFIG_DIR
// override.
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv("ODSCTL_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigDir returns the directory the config was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ConfigPath returns the full path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.configDir, configFileName)
}

func defaultConfig(dir string) *Config {
	return &Config{
		CommonUserPrefix: "C##",
		RootNameSuffix:   "_cdb",
		SecretsDir:       filepath.Join(dir, "secrets"),
		OCIBin:           "oci",
		DefaultStates:    "ACTIVE,NEEDS_ATTENTION",
		SnapshotMaxAge:   Duration{24 * time.Hour},
		CallTimeout:      Duration{300 * time.Second},
		configDir:        dir,
	}
}

// LoadConfig reads the config file from dir (defaulting per
// DefaultConfigDir), tolerating JSONC, and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = DefaultConfigDir()
		if err != nil {
			return nil, err
		}
	}

	cfg := defaultConfig(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		if err := json.Unmarshal(standardized, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		cfg.configDir = dir
		if cfg.SecretsDir == "" {
			cfg.SecretsDir = filepath.Join(dir, "secrets")
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides is the single place ambient environment state is read.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ODSCTL_COMPARTMENT"); v != "" {
		cfg.CompartmentID = v
	}
	if v := os.Getenv("ODSCTL_OCI_BIN"); v != "" {
		cfg.OCIBin = v
	}
	if v := os.Getenv("ODSCTL_OCI_PROFILE"); v != "" {
		cfg.OCIProfile = v
	}
	if v := os.Getenv("ODSCTL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.EnvUser = os.Getenv("ODSCTL_DB_USER")
	cfg.EnvSecret = os.Getenv("ODSCTL_DB_SECRET")
}

// Save writes the config to disk atomically, creating the directory if
// needed. Used by `odsctl config init`.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	// Write atomically: write to temp file then rename.
	tmpPath := c.ConfigPath() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, c.ConfigPath()); err != nil {
		_ = os.Remove(tmpPath) // clean up on failure
		return fmt.Errorf("saving config: %w", err)
	}

	return nil
}
