// Package cache memoizes resolved dependency graphs and rendered artifacts.
//
// Resolution is deterministic: identical manifests, configuration and tool
// version always produce the same graph, so the pipeline keys the result by
// a content hash of its inputs and skips conversion and graph building on a
// hit.
//
// # Backends
//
//   - [NullCache]: stores nothing (--cache none)
//   - [FileCache]: one JSON file per entry under the XDG cache directory
//   - [RedisCache]: shared cache for the API server
//   - [MongoCache]: shared cache with TTL index cleanup
//
// # Keys
//
// A [Keyer] builds keys from content hashes. [ScopedKeyer] prefixes every
// key, which lets several workspaces share one Redis or Mongo instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true, or false on a miss. Expired entries
	// are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long resolved graphs are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey keys a resolved graph by the hash of its inputs.
	GraphKey(inputsHash string, opts GraphKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its graph document.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the settings that change a resolved graph beyond its
// input files.
type GraphKeyOpts struct {
	ToolVersion string `json:"tool_version,omitempty"`
}

// ArtifactKeyOpts are the rendering settings of an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Reduce   bool   `json:"reduce,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey implements [Keyer].
func (DefaultKeyer) GraphKey(inputsHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputsHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
