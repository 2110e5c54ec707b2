package core

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Snapshot is a file-persisted target listing used in place of a live
// query. The shape matches a raw CLI capture ({"data": [...]}) with an
// added capture timestamp; captures lacking the timestamp fall back to the
// file's mtime for the freshness check.
type Snapshot struct {
	CapturedAt time.Time `json:"capturedAt,omitempty"`
	Data       []Target  `json:"data"`
}

// WriteSnapshot atomically writes a snapshot of the given targets,
// stamping the capture time.
func WriteSnapshot(path string, targets []Target) error {
	snap := Snapshot{CapturedAt: time.Now().UTC(), Data: targets}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot and enforces the freshness gate: a capture
// older than maxAge is refused unless allowStale overrides. maxAge <= 0
// disables the check.
func LoadSnapshot(path string, maxAge time.Duration, allowStale bool) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	capturedAt := snap.CapturedAt
	if capturedAt.IsZero() {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("checking snapshot age: %w", err)
		}
		capturedAt = info.ModTime()
		snap.CapturedAt = capturedAt
	}

	if maxAge > 0 && !allowStale {
		if age := time.Since(capturedAt); age > maxAge {
			return nil, Stalef("snapshot %s is older than %s (captured %s); use --allow-stale to override",
				path, maxAge, capturedAt.Format(time.RFC3339))
		}
	}
	return &snap, nil
}
