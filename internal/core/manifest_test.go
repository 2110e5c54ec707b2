package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
targets:
  - name: fin01
    description: finance database
    ipAddresses: ["10.0.1.15", "10.0.1.16"]
    port: 1521
    serviceName: fin01.example.com
    connector: conn01
  - name: hr01
    dbSystemId: ocid1.dbsystem.oc1.xx.hr01
    compartment: ocid1.compartment.oc1.xx.other
`)
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.Targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(m.Targets))
	}
	if m.Targets[0].Connector != "conn01" || len(m.Targets[0].IPAddresses) != 2 {
		t.Errorf("first entry parsed wrong: %+v", m.Targets[0])
	}
	if m.Targets[1].Compartment != "ocid1.compartment.oc1.xx.other" {
		t.Errorf("per-entry compartment lost: %+v", m.Targets[1])
	}
}

func TestLoadManifestErrors(t *testing.T) {
	t.Run("empty manifest", func(t *testing.T) {
		path := writeManifest(t, "targets: []\n")
		if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "no targets") {
			t.Errorf("got %v, want no-targets error", err)
		}
	})

	t.Run("incomplete entry", func(t *testing.T) {
		path := writeManifest(t, `
targets:
  - name: incomplete01
    port: 1521
`)
		_, err := LoadManifest(path)
		if err == nil || !strings.Contains(err.Error(), "needs either dbSystemId or ipAddresses") {
			t.Errorf("got %v, want completeness error", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		path := writeManifest(t, `
targets:
  - dbSystemId: ocid1.dbsystem.oc1.xx.x1
`)
		if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "name is required") {
			t.Errorf("got %v, want name error", err)
		}
	})
}

func TestManifestTargetRequest(t *testing.T) {
	t.Run("installed database", func(t *testing.T) {
		entry := ManifestTarget{
			Name:        "fin01",
			IPAddresses: []string{"10.0.1.15"},
			Port:        1521,
			ServiceName: "fin01.example.com",
		}
		req := entry.Request("ocid1.compartment.oc1.xx.comp", "ocid1.datasafeonpremconnector.oc1.xx.c1")
		if req.DatabaseDetails.DatabaseType != "INSTALLED_DATABASE" {
			t.Errorf("got type %q", req.DatabaseDetails.DatabaseType)
		}
		if req.DatabaseDetails.InfrastructureType != "ON_PREMISES" {
			t.Errorf("got infra %q", req.DatabaseDetails.InfrastructureType)
		}
		if req.CompartmentID != "ocid1.compartment.oc1.xx.comp" {
			t.Errorf("default compartment not applied: %q", req.CompartmentID)
		}
		if req.ConnectorID == "" {
			t.Error("connector id should be carried through")
		}
	})

	t.Run("cloud database system", func(t *testing.T) {
		entry := ManifestTarget{
			Name:        "hr01",
			DBSystemID:  "ocid1.dbsystem.oc1.xx.hr01",
			Compartment: "ocid1.compartment.oc1.xx.pinned",
		}
		req := entry.Request("ocid1.compartment.oc1.xx.comp", "")
		if req.DatabaseDetails.DatabaseType != "DATABASE_CLOUD_SERVICE" {
			t.Errorf("got type %q", req.DatabaseDetails.DatabaseType)
		}
		if req.CompartmentID != "ocid1.compartment.oc1.xx.pinned" {
			t.Errorf("pinned compartment not honored: %q", req.CompartmentID)
		}
	})
}
