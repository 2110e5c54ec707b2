package core

// Mode is the closed set of connector assignment strategies. Each variant
// carries exactly the arguments it needs, so invalid combinations are
// unrepresentable: the constructors validate what little remains.
type Mode interface {
	// Describe returns a short label for logs and summaries.
	Describe() string

	assignmentMode()
}

// SetMode assigns one explicit destination connector to every target in
// the working set.
type SetMode struct {
	Destination Connector
}

// NewSetMode creates a set-mode assignment toward dest.
func NewSetMode(dest Connector) SetMode {
	return SetMode{Destination: dest}
}

// Describe implements Mode.
func (m SetMode) Describe() string { return "set" }

func (SetMode) assignmentMode() {}

// MigrateMode moves every target currently on Source over to Destination.
type MigrateMode struct {
	Source      Connector
	Destination Connector
}

// NewMigrateMode creates a migrate-mode assignment. Source and destination
// must differ.
func NewMigrateMode(source, dest Connector) (MigrateMode, error) {
	if source.ID == dest.ID {
		return MigrateMode{}, Validationf("source and destination connector must differ")
	}
	return MigrateMode{Source: source, Destination: dest}, nil
}

// Describe implements Mode.
func (m MigrateMode) Describe() string { return "migrate" }

func (MigrateMode) assignmentMode() {}

// DistributeMode spreads targets round-robin over the eligible connectors.
type DistributeMode struct {
	Connectors []Connector
}

// NewDistributeMode creates a distribute-mode assignment over the eligible
// connector list (already exclusion-filtered). An empty list fails fast.
func NewDistributeMode(conns []Connector) (DistributeMode, error) {
	if len(conns) == 0 {
		return DistributeMode{}, Validationf("no active connectors found")
	}
	return DistributeMode{Connectors: conns}, nil
}

// Describe implements Mode.
func (m DistributeMode) Describe() string { return "distribute" }

func (DistributeMode) assignmentMode() {}

// Plan computes the per-target decisions for one run. Targets are
// processed in catalog iteration order; the round-robin fairness of
// distribute mode (at most one target difference between any two
// connectors) holds within a single run. The order is deliberately not
// re-sorted, so repeated distribute runs may place targets differently if
// the backing listing order changes.
//
// Cross-cutting rule: a target whose current connector already equals the
// computed desired connector is a NOOP, counted as success downstream.
func Plan(targets []Target, mode Mode) []Decision {
	decisions := make([]Decision, 0, len(targets))

	switch m := mode.(type) {
	case SetMode:
		for _, t := range targets {
			decisions = append(decisions, decide(t, m.Destination.ID))
		}

	case MigrateMode:
		// Working set: exactly the targets whose current connector equals
		// the source. None can already match the destination, since
		// source != destination is enforced at construction.
		for _, t := range targets {
			if t.ConnectorID() != m.Source.ID {
				continue
			}
			decisions = append(decisions, decide(t, m.Destination.ID))
		}

	case DistributeMode:
		n := len(m.Connectors)
		for k, t := range targets {
			decisions = append(decisions, decide(t, m.Connectors[k%n].ID))
		}
	}

	return decisions
}

func decide(t Target, desired string) Decision {
	d := Decision{
		TargetID:           t.ID,
		TargetName:         t.DisplayName,
		CurrentConnectorID: t.ConnectorID(),
		DesiredConnectorID: desired,
		Action:             ActionUpdate,
	}
	if d.CurrentConnectorID == desired {
		d.Action = ActionNoop
	}
	return d
}
