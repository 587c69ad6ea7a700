// Package rootdir locates the root directory of a project tree.
//
// The root is the closest ancestor (including the starting directory itself)
// that contains either the tool configuration directory ([ConfigDirectoryName])
// or a version-control directory ([GitDirectoryName]). Root-relative manifest
// paths are resolved against it, and project discovery starts from it.
//
// Lookups only perform existence checks through an injected [fsys.FS], so a
// Locator never mutates anything and is trivially replaceable in tests:
//
//	loc := rootdir.New(fsys.NewMap("/work/.git", "/work/app/Project.hcl"))
//	root, ok := loc.Locate("/work/app") // "/work", true
package rootdir

import (
	"path/filepath"
	"sync"

	"github.com/matzehuels/stackgen/pkg/fsys"
)

const (
	// ConfigDirectoryName is the directory holding tool configuration.
	ConfigDirectoryName = "Stackgen"

	// GitDirectoryName marks the root of a git checkout.
	GitDirectoryName = ".git"
)

// Locator finds the root directory for a starting directory.
type Locator interface {
	// Locate returns the root directory and true, or "" and false when no
	// ancestor of from contains a root marker.
	Locate(from string) (string, bool)
}

// Func adapts a plain function to the [Locator] interface.
type Func func(from string) (string, bool)

// Locate calls f.
func (f Func) Locate(from string) (string, bool) { return f(from) }

// FSLocator walks parent directories checking for root markers.
type FSLocator struct {
	fs fsys.FS
}

// New creates a Locator that probes fs. A nil fs uses the host file system.
func New(fs fsys.FS) *FSLocator {
	if fs == nil {
		fs = fsys.OS{}
	}
	return &FSLocator{fs: fs}
}

// Locate walks upward from from until a directory containing a root marker
// is found or the file-system root is passed.
func (l *FSLocator) Locate(from string) (string, bool) {
	dir := filepath.Clean(from)
	for {
		if l.isRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (l *FSLocator) isRoot(dir string) bool {
	return l.fs.Exists(filepath.Join(dir, ConfigDirectoryName)) ||
		l.fs.Exists(filepath.Join(dir, GitDirectoryName))
}

// CachedLocator memoizes another Locator per starting directory.
// It is safe for concurrent use; negative results are cached too.
type CachedLocator struct {
	inner Locator

	mu    sync.Mutex
	cache map[string]result
}

type result struct {
	root string
	ok   bool
}

// NewCached wraps inner with a per-process memo.
func NewCached(inner Locator) *CachedLocator {
	return &CachedLocator{inner: inner, cache: make(map[string]result)}
}

// Locate returns the memoized answer for from, computing it on first use.
func (c *CachedLocator) Locate(from string) (string, bool) {
	key := filepath.Clean(from)

	c.mu.Lock()
	if r, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return r.root, r.ok
	}
	c.mu.Unlock()

	root, ok := c.inner.Locate(key)

	c.mu.Lock()
	c.cache[key] = result{root: root, ok: ok}
	c.mu.Unlock()
	return root, ok
}

var (
	_ Locator = Func(nil)
	_ Locator = (*FSLocator)(nil)
	_ Locator = (*CachedLocator)(nil)
)
