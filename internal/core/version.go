package core

import (
	"strconv"
	"strings"
)

// VersionCmp is the result of a semantic version comparison.
type VersionCmp int

const (
	VersionLess    VersionCmp = -1
	VersionEqual   VersionCmp = 0
	VersionGreater VersionCmp = 1
)

// String returns a short label for the comparison result.
func (c VersionCmp) String() string {
	switch c {
	case VersionLess:
		return "less"
	case VersionGreater:
		return "greater"
	default:
		return "equal"
	}
}

// CompareVersions compares dotted major.minor.patch version strings. Any
// "-prerelease" suffix is stripped before comparison, missing components
// default to 0, and comparison is numeric per component, left to right,
// short-circuiting on the first difference. Non-numeric components count
// as 0; this is advisory reporting, never control flow.
func CompareVersions(a, b string) VersionCmp {
	av := versionComponents(a)
	bv := versionComponents(b)

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(av) {
			x = av[i]
		}
		if i < len(bv) {
			y = bv[i]
		}
		if x < y {
			return VersionLess
		}
		if x > y {
			return VersionGreater
		}
	}
	return VersionEqual
}

func versionComponents(v string) []int {
	v = strings.TrimSpace(strings.TrimPrefix(v, "v"))
	if idx := strings.IndexByte(v, '-'); idx >= 0 {
		v = v[:idx]
	}
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

// ConnectorUpdate holds the advisory update status for one connector.
type ConnectorUpdate struct {
	Name      string `json:"name"`
	Installed string `json:"installed"`
	Available string `json:"available"`
	HasUpdate bool   `json:"hasUpdate"`
}

// CheckConnectorUpdates compares each connector's installed bundle version
// against the latest available one. A non-empty available argument
// overrides the per-connector advertised version.
func CheckConnectorUpdates(conns []Connector, available string) []ConnectorUpdate {
	updates := make([]ConnectorUpdate, 0, len(conns))
	for _, c := range conns {
		latest := c.AvailableVersion
		if available != "" {
			latest = available
		}
		updates = append(updates, ConnectorUpdate{
			Name:      c.DisplayName,
			Installed: c.CreatedVersion,
			Available: latest,
			HasUpdate: latest != "" && CompareVersions(c.CreatedVersion, latest) == VersionLess,
		})
	}
	return updates
}
