package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir() // no config file
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OCIBin != "oci" {
		t.Errorf("OCIBin = %q, want oci", cfg.OCIBin)
	}
	if cfg.CommonUserPrefix != "C##" || cfg.RootNameSuffix != "_cdb" {
		t.Errorf("naming defaults wrong: %q/%q", cfg.CommonUserPrefix, cfg.RootNameSuffix)
	}
	if cfg.DefaultStates != "ACTIVE,NEEDS_ATTENTION" {
		t.Errorf("DefaultStates = %q", cfg.DefaultStates)
	}
	if cfg.SnapshotMaxAge.Duration != 24*time.Hour {
		t.Errorf("SnapshotMaxAge = %v, want 24h", cfg.SnapshotMaxAge.Duration)
	}
	if cfg.CallTimeout.Duration != 300*time.Second {
		t.Errorf("CallTimeout = %v, want 300s", cfg.CallTimeout.Duration)
	}
	if cfg.SecretsDir != filepath.Join(dir, "secrets") {
		t.Errorf("SecretsDir = %q", cfg.SecretsDir)
	}
}

func TestLoadConfigJSONC(t *testing.T) {
	dir := t.TempDir()
	content := `{
	// tenancy root for the security zone
	"compartmentId": "ocid1.compartment.oc1.xx.comp",
	"connectorExcludes": ["legacy01"],
	"snapshotMaxAge": "12h",
	"callTimeout": "60s", // trailing comma next
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CompartmentID != "ocid1.compartment.oc1.xx.comp" {
		t.Errorf("CompartmentID = %q", cfg.CompartmentID)
	}
	if len(cfg.ConnectorExcludes) != 1 || cfg.ConnectorExcludes[0] != "legacy01" {
		t.Errorf("ConnectorExcludes = %v", cfg.ConnectorExcludes)
	}
	if cfg.SnapshotMaxAge.Duration != 12*time.Hour {
		t.Errorf("SnapshotMaxAge = %v, want 12h", cfg.SnapshotMaxAge.Duration)
	}
	if cfg.CallTimeout.Duration != time.Minute {
		t.Errorf("CallTimeout = %v, want 60s", cfg.CallTimeout.Duration)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ODSCTL_COMPARTMENT", "ocid1.compartment.oc1.xx.env")
	t.Setenv("ODSCTL_OCI_BIN", "/opt/oci/bin/oci")
	t.Setenv("ODSCTL_DB_USER", "envuser")
	t.Setenv("ODSCTL_DB_SECRET", "env-secret!")

	dir := t.TempDir()
	content := `{"compartmentId": "ocid1.compartment.oc1.xx.file"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CompartmentID != "ocid1.compartment.oc1.xx.env" {
		t.Errorf("environment should override the file, got %q", cfg.CompartmentID)
	}
	if cfg.OCIBin != "/opt/oci/bin/oci" {
		t.Errorf("OCIBin = %q", cfg.OCIBin)
	}
	if cfg.EnvUser != "envuser" || cfg.EnvSecret != "env-secret!" {
		t.Errorf("env credentials not captured: %q/%q", cfg.EnvUser, cfg.EnvSecret)
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.CompartmentID = "ocid1.compartment.oc1.xx.comp"
	cfg.EnvSecret = "never-on-disk!"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(cfg.ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "never-on-disk!") {
		t.Error("environment secret leaked into the config file")
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.CompartmentID != cfg.CompartmentID {
		t.Errorf("round-trip compartment = %q", loaded.CompartmentID)
	}
	if loaded.SnapshotMaxAge.Duration != cfg.SnapshotMaxAge.Duration {
		t.Errorf("round-trip max age = %v", loaded.SnapshotMaxAge.Duration)
	}
}

func TestDefaultConfigDirOverride(t *testing.T) {
	t.Setenv("ODSCTL_CONFIG_DIR", "/tmp/odsctl-test-conf")
	dir, err := DefaultConfigDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/odsctl-test-conf" {
		t.Errorf("DefaultConfigDir = %q", dir)
	}
}

func TestDurationJSON(t *testing.T) {
	d := Duration{90 * time.Second}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"1m30s"` {
		t.Errorf("marshaled as %s", data)
	}

	var back Duration
	if err := json.Unmarshal([]byte(`"24h"`), &back); err != nil {
		t.Fatal(err)
	}
	if back.Duration != 24*time.Hour {
		t.Errorf("got %v, want 24h", back.Duration)
	}

	if err := json.Unmarshal([]byte(`"soon"`), &back); err == nil {
		t.Error("bogus duration should fail to parse")
	}
}
