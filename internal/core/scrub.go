package core

import (
	"os"
	"sync"
)

// Janitor tracks transient secret files and removes them on every exit
// path. The process registers files as they are created and drains the
// janitor both on normal exit and on signal-driven shutdown.
type Janitor struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// DefaultJanitor is the process-wide janitor drained by main on exit.
var DefaultJanitor = NewJanitor()

// NewJanitor creates an empty Janitor.
func NewJanitor() *Janitor {
	return &Janitor{paths: make(map[string]struct{})}
}

// Register adds a path to be scrubbed at drain time.
func (j *Janitor) Register(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.paths[path] = struct{}{}
}

// Unregister removes a path without deleting it, for callers that already
// cleaned up themselves.
func (j *Janitor) Unregister(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.paths, path)
}

// Drain deletes every registered file. Safe to call multiple times;
// deletion errors are ignored since the file may already be gone.
func (j *Janitor) Drain() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for path := range j.paths {
		_ = os.Remove(path)
		delete(j.paths, path)
	}
}
