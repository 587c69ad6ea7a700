// Package fsys defines the read-only file-system capability the resolution
// core depends on.
//
// Root location and path resolution only ever ask whether an entry exists.
// Keeping that behind a one-method interface lets tests describe a directory
// tree as a list of paths instead of touching disk.
package fsys

import (
	"os"
	"path/filepath"
	"sync"
)

// FS reports whether a path exists.
type FS interface {
	Exists(path string) bool
}

// OS is an [FS] backed by the host file system.
type OS struct{}

// Exists reports whether path can be stat'ed.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Map is an in-memory [FS]. Adding a path also makes all of its ancestors
// exist, mirroring how directories behave on disk.
// Map is safe for concurrent use.
type Map struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

// NewMap creates a Map containing the given absolute paths.
func NewMap(paths ...string) *Map {
	m := &Map{paths: make(map[string]struct{})}
	for _, p := range paths {
		m.Add(p)
	}
	return m
}

// Add records path and every ancestor of path.
func (m *Map) Add(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Clean(path)
	for {
		m.paths[p] = struct{}{}
		parent := filepath.Dir(p)
		if parent == p {
			return
		}
		p = parent
	}
}

// Exists reports whether path was added, directly or as an ancestor.
func (m *Map) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.paths[filepath.Clean(path)]
	return ok
}

var (
	_ FS = OS{}
	_ FS = (*Map)(nil)
)
