package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stackgen/pkg/cache"
	"github.com/matzehuels/stackgen/pkg/fsys"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/lint"
	"github.com/matzehuels/stackgen/pkg/merge"
	"github.com/matzehuels/stackgen/pkg/observability"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state. Multiple goroutines can share one
// Runner. Root lookups are memoized for a single Execute call only, so
// adding or removing a root marker is seen by the next run.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	FS      fsys.FS
	Locator rootdir.Locator
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means [log.Default].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		FS:     fsys.OS{},
	}
}

// Execute runs load → build → merge → lint with caching. Errors from the
// core are returned unwrapped enough for errors.GetCode to find their code.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	locator := r.locator()
	in, err := readInputs(opts.Dir, locator, r.fs().Exists)
	if err != nil {
		return nil, err
	}
	result.Root = in.root
	result.Stats.Manifests = len(in.files)
	logger.Debug("discovered manifests", "dir", opts.Dir, "count", len(in.files), "root", in.root)

	key := r.Keyer.GraphKey(in.hash(), cache.GraphKeyOpts{ToolVersion: opts.ToolVersion})
	if !opts.Refresh {
		if cached, ok := r.fromCache(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "graph")
			logger.Info("using cached graph", "nodes", len(cached.Document.Nodes))
			result.Document = cached.Document
			result.Config = cached.Config
			result.Issues = cached.Issues
			result.Stats = cached.Stats
			result.CacheHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	// Load
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLoadStart(ctx, opts.Dir)
	cfg, err := in.loadConfig(locator)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Dir, len(in.files), time.Since(start), err)
		return nil, err
	}
	projects, err := in.loadProjects(ctx, locator)
	result.Stats.LoadTime = time.Since(start)
	hooks.OnLoadComplete(ctx, opts.Dir, len(in.files), result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded manifests", "projects", len(projects), "duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Build
	start = time.Now()
	hooks.OnBuildStart(ctx, len(projects))
	g, err := graph.Build(projects)
	result.Stats.BuildTime = time.Since(start)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, result.Stats.BuildTime, err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, g.Len(), result.Stats.BuildTime, nil)
	result.Graph = g
	result.Stats.Nodes = g.Len()
	result.Stats.Edges = g.EdgeCount()
	logger.Info("built graph", "nodes", g.Len(), "edges", g.EdgeCount(), "duration", result.Stats.BuildTime)

	// Merge
	start = time.Now()
	hooks.OnMergeStart(ctx, g.Len())
	merged, err := merge.Graph(cfg, g)
	if err == nil && opts.ToolVersion != "" {
		err = merged.CheckToolVersion(opts.ToolVersion)
	}
	result.Stats.MergeTime = time.Since(start)
	hooks.OnMergeComplete(ctx, result.Stats.MergeTime, err)
	if err != nil {
		return nil, err
	}
	result.Merged = merged
	result.Config = merged.Report()
	logger.Debug("merged configuration", "duration", result.Stats.MergeTime)

	// Lint
	if !opts.SkipLint {
		start = time.Now()
		result.Issues = lint.Lint(g)
		result.Stats.LintTime = time.Since(start)
		warnings, errs := lint.Count(result.Issues)
		logger.Debug("linted graph", "warnings", warnings, "errors", errs)
	}

	result.Document = g.Document()
	r.store(ctx, key, result, logger)
	return result, nil
}

func (r *Runner) fromCache(ctx context.Context, key string) (*cachedResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	if cached.Document.Hash != cached.Document.ComputeHash() {
		return nil, false
	}
	return &cached, true
}

func (r *Runner) store(ctx context.Context, key string, result *Result, logger *log.Logger) {
	data, err := json.Marshal(cachedResult{
		Root:     result.Root,
		Document: result.Document,
		Config:   result.Config,
		Issues:   result.Issues,
		Stats:    result.Stats,
	})
	if err != nil {
		logger.Warn("encode cache entry", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		logger.Warn("write cache", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "graph", len(data))
}

// Artifact returns a rendered artifact for doc, computing it with render
// on a cache miss.
func (r *Runner) Artifact(ctx context.Context, doc graph.Document, opts cache.ArtifactKeyOpts, render func() ([]byte, error)) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(doc.Hash, opts)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	data, err := render()
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) fs() fsys.FS {
	if r.FS == nil {
		return fsys.OS{}
	}
	return r.FS
}

// locator returns a fresh memo over the configured locator.
func (r *Runner) locator() rootdir.Locator {
	if r.Locator == nil {
		return rootdir.NewCached(rootdir.New(r.fs()))
	}
	return rootdir.NewCached(r.Locator)
}
