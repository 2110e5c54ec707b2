package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Directory lists and resolves on-prem connectors. The connector lookup
// scope may differ from the target scope.
type Directory struct {
	client Client
	log    zerolog.Logger
}

// NewDirectory creates a Directory over the given client.
func NewDirectory(client Client, log zerolog.Logger) *Directory {
	return &Directory{client: client, log: log}
}

// List returns the ACTIVE connectors in a compartment subtree, minus any
// whose display name appears in exclude. Unmatched exclusion names are
// silently ignored; they may legitimately not exist in this scope.
func (d *Directory) List(ctx context.Context, compartment string, exclude []string) ([]Connector, error) {
	conns, err := d.client.ListConnectors(ctx, compartment)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[name] = true
	}

	var out []Connector
	for _, c := range conns {
		if c.LifecycleState != StateActive {
			continue
		}
		if excluded[c.DisplayName] {
			d.log.Debug().Str("connector", c.DisplayName).Msg("excluding connector")
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ResolveConnector resolves a single connector by OCID or exact display
// name. Zero or multiple name matches is a resolution failure.
func (d *Directory) ResolveConnector(ctx context.Context, input, compartment string) (Connector, error) {
	if IsOCID(input) {
		c, err := d.client.GetConnector(ctx, input)
		if err != nil {
			return Connector{}, Resolutionf("connector %q not found: %v", input, err)
		}
		return c, nil
	}

	conns, err := d.client.ListConnectors(ctx, compartment)
	if err != nil {
		return Connector{}, err
	}
	var matches []Connector
	for _, c := range conns {
		if c.DisplayName == input {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return Connector{}, Resolutionf("connector %q not found", input)
	case 1:
		return matches[0], nil
	default:
		return Connector{}, Resolutionf("connector name %q is ambiguous (%d matches)", input, len(matches))
	}
}
