package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is a YAML registration file listing targets to create in bulk
// (`odsctl target register -f targets.yaml`).
type Manifest struct {
	Targets []ManifestTarget `yaml:"targets"`
}

// ManifestTarget describes one database to register. Either DBSystemID (a
// cloud database system) or the installed-database triple
// (ipAddresses/port/serviceName) must be supplied.
type ManifestTarget struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Compartment string   `yaml:"compartment,omitempty"`
	DBSystemID  string   `yaml:"dbSystemId,omitempty"`
	IPAddresses []string `yaml:"ipAddresses,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	ServiceName string   `yaml:"serviceName,omitempty"`
	Connector   string   `yaml:"connector,omitempty"`
}

// LoadManifest reads and validates a registration manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Targets) == 0 {
		return nil, Validationf("manifest lists no targets")
	}
	for i, t := range m.Targets {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("manifest target %d: %w", i+1, err)
		}
	}
	return &m, nil
}

// Validate checks that a manifest entry is complete enough to register.
func (t ManifestTarget) Validate() error {
	if t.Name == "" {
		return Validationf("name is required")
	}
	if t.DBSystemID != "" {
		return nil
	}
	if len(t.IPAddresses) == 0 || t.Port == 0 || t.ServiceName == "" {
		return Validationf("target %q needs either dbSystemId or ipAddresses, port and serviceName", t.Name)
	}
	return nil
}

// Request builds the create request for this entry. The default
// compartment is used when the entry does not pin one.
func (t ManifestTarget) Request(defaultCompartment, connectorID string) CreateTargetRequest {
	compartment := t.Compartment
	if compartment == "" {
		compartment = defaultCompartment
	}

	details := DatabaseDetails{}
	if t.DBSystemID != "" {
		details.DatabaseType = "DATABASE_CLOUD_SERVICE"
		details.InfrastructureType = "ORACLE_CLOUD"
		details.DBSystemID = t.DBSystemID
	} else {
		details.DatabaseType = "INSTALLED_DATABASE"
		details.InfrastructureType = "ON_PREMISES"
		details.IPAddresses = t.IPAddresses
		details.ListenerPort = t.Port
		details.ServiceName = t.ServiceName
	}

	return CreateTargetRequest{
		DisplayName:     t.Name,
		Description:     t.Description,
		CompartmentID:   compartment,
		DatabaseDetails: details,
		ConnectorID:     connectorID,
	}
}
