// Package pipeline resolves a directory of project manifests into a
// validated dependency graph.
//
// The pipeline is shared by the CLI and the HTTP API so both apply the same
// caching and validation. Stages run in order:
//
//  1. Load: locate the root, read Stackgen/Config.toml, discover and parse
//     every Project.hcl, convert manifests in parallel
//  2. Build: construct the target graph, reject duplicates, unresolved
//     dependencies and cycles
//  3. Merge: combine configuration, check version compatibility and
//     optionally the installed tool version
//  4. Lint: report questionable declarations
//
// The result of a successful run is cached under a hash of every input
// file, so an unchanged workspace skips stages 1 to 4.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Dir: "."})
//	if err != nil {
//	    return err
//	}
//	for _, id := range result.Document.Order {
//	    fmt.Println(id)
//	}
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/lint"
	"github.com/matzehuels/stackgen/pkg/merge"
)

// Options configures a pipeline run. It is decoded directly from API
// request bodies.
type Options struct {
	// Dir is searched recursively for project manifests.
	Dir string `json:"path"`

	// ToolVersion, when set, is checked against every compatible-versions
	// declaration and becomes part of the cache key.
	ToolVersion string `json:"tool_version,omitempty"`

	// Refresh ignores cached results. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// SkipLint leaves Result.Issues empty.
	SkipLint bool `json:"skip_lint,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Dir == "" {
		return serrors.New(serrors.ErrCodeInvalidInput, "path is required")
	}
	abs, err := filepath.Abs(o.Dir)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidInput, err, "resolve %s", o.Dir)
	}
	o.Dir = abs
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	// Root is the located workspace root, empty if none was found.
	Root string `json:"root,omitempty"`

	Document graph.Document `json:"graph"`
	Config   merge.Report   `json:"config"`
	Issues   []lint.Issue   `json:"issues"`

	// Graph and Merged are nil when the result came from the cache.
	Graph  *graph.Graph  `json:"-"`
	Merged *merge.Merged `json:"-"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Manifests int           `json:"manifests"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	LoadTime  time.Duration `json:"load_time"`
	BuildTime time.Duration `json:"build_time"`
	MergeTime time.Duration `json:"merge_time"`
	LintTime  time.Duration `json:"lint_time"`
}

// cachedResult is what a graph cache entry holds.
type cachedResult struct {
	Root     string         `json:"root,omitempty"`
	Document graph.Document `json:"graph"`
	Config   merge.Report   `json:"config"`
	Issues   []lint.Issue   `json:"issues"`
	Stats    Stats          `json:"stats"`
}
