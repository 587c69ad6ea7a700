package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/stackgen/pkg/cache"
	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/lint"
	"github.com/matzehuels/stackgen/pkg/observability"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

const appManifest = `
project "App" {
  target "App" {
    product = "app"
    sources = ["Sources"]

    dependency "target" {
      name = "Feature"
    }
    dependency "project" {
      path = "//Core"
      name = "Core"
    }
    run_action {
      executable {
        target = "App"
      }
    }
  }

  target "Feature" {
    product = "framework"
    sources = ["Feature"]

    dependency "project" {
      path = "../Core"
      name = "Core"
    }
  }
}
`

const coreManifest = `
project "Core" {
  compatible_versions = ["15.0", "16.0"]

  target "Core" {
    product = "framework"
  }
}
`

// workspace writes files below a fresh directory and returns it.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func defaultWorkspace(t *testing.T) string {
	return workspace(t, map[string]string{
		".git/HEAD":            "ref: refs/heads/main\n",
		"App/Project.hcl":      appManifest,
		"Core/Project.hcl":     coreManifest,
		"Stackgen/Config.toml": "compatible_versions = \"all\"\n",
	})
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestExecute(t *testing.T) {
	ws := defaultWorkspace(t)
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Dir: ws})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheHit || res.Graph == nil || res.Merged == nil {
		t.Fatalf("first run: CacheHit=%v Graph=%v", res.CacheHit, res.Graph)
	}
	if res.Root != ws {
		t.Errorf("Root = %q, want %q", res.Root, ws)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}

	app := filepath.Join(ws, "App")
	core := filepath.Join(ws, "Core")
	want := []graph.NodeID{
		{Project: core, Target: "Core"},
		{Project: app, Target: "Feature"},
		{Project: app, Target: "App"},
	}
	if !slices.Equal(res.Document.Order, want) {
		t.Errorf("Order = %v, want %v", res.Document.Order, want)
	}
	if got := res.Config.ProjectNames[core]; got != "Core" {
		t.Errorf("Config.ProjectNames[Core] = %q", got)
	}
	if res.Stats.Manifests != 2 || res.Stats.Nodes != 3 || res.Stats.Edges != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	// Core has no sources.
	if len(res.Issues) != 1 || res.Issues[0].Rule != "no-sources" || res.Issues[0].Severity != lint.Warning {
		t.Errorf("Issues = %v", res.Issues)
	}

	again, err := r.Execute(ctx, Options{Dir: ws})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || again.Graph != nil {
		t.Errorf("second run: CacheHit=%v", again.CacheHit)
	}
	if !reflect.DeepEqual(again.Document, res.Document) {
		t.Error("cached document differs")
	}
	if !reflect.DeepEqual(again.Issues, res.Issues) {
		t.Errorf("cached issues = %v, want %v", again.Issues, res.Issues)
	}
	if again.RunID == res.RunID {
		t.Error("RunID should be unique per run")
	}

	fresh, err := r.Execute(ctx, Options{Dir: ws, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteInvalidatesOnChange(t *testing.T) {
	ws := defaultWorkspace(t)
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Dir: ws}); err != nil {
		t.Fatal(err)
	}

	changed := coreManifest + "\n# edited\n"
	if err := os.WriteFile(filepath.Join(ws, "Core", "Project.hcl"), []byte(changed), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Dir: ws})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("edited manifest should miss the cache")
	}
}

func TestExecuteRootMarkers(t *testing.T) {
	tests := []struct {
		name    string
		change  func(t *testing.T, ws string)
		wantErr serrors.Code
	}{
		{
			name: "markers removed",
			change: func(t *testing.T, ws string) {
				for _, m := range []string{rootdir.GitDirectoryName, rootdir.ConfigDirectoryName} {
					if err := os.RemoveAll(filepath.Join(ws, m)); err != nil {
						t.Fatal(err)
					}
				}
				if root, ok := rootdir.New(nil).Locate(ws); ok {
					t.Skipf("temp dir is below a root marker at %s", root)
				}
			},
			wantErr: serrors.ErrCodeRootDirectoryNotFound,
		},
		{
			name: "nested root",
			change: func(t *testing.T, ws string) {
				if err := os.MkdirAll(filepath.Join(ws, "App", rootdir.GitDirectoryName), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: serrors.ErrCodeUnresolvedDependency,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := defaultWorkspace(t)
			c, err := cache.NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			ctx := context.Background()

			if _, err := NewRunner(c, nil, nil).Execute(ctx, Options{Dir: ws}); err != nil {
				t.Fatal(err)
			}
			tt.change(t, ws)

			res, err := NewRunner(c, nil, nil).Execute(ctx, Options{Dir: ws})
			if err == nil {
				t.Fatalf("Execute() = CacheHit %v, want %s", res.CacheHit, tt.wantErr)
			}
			if got := serrors.GetCode(err); got != tt.wantErr {
				t.Errorf("code = %s, want %s (%v)", got, tt.wantErr, err)
			}
		})
	}
}

func TestExecuteSharedRunnerSeesNewRoot(t *testing.T) {
	ws := defaultWorkspace(t)
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Dir: ws}); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(ws, "App", rootdir.GitDirectoryName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Execute(ctx, Options{Dir: ws}); serrors.GetCode(err) != serrors.ErrCodeUnresolvedDependency {
		t.Errorf("second run error = %v, want UNRESOLVED_DEPENDENCY", err)
	}
}

func TestExecuteToolVersion(t *testing.T) {
	ws := defaultWorkspace(t)
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Dir: ws, ToolVersion: "15.0"}); err != nil {
		t.Fatalf("15.0 should be accepted: %v", err)
	}

	_, err := r.Execute(ctx, Options{Dir: ws, ToolVersion: "14.3"})
	if got := serrors.GetCode(err); got != serrors.ErrCodeIncompatibleToolVersion {
		t.Fatalf("code = %s (%v)", got, err)
	}
}

func TestExecuteConfig(t *testing.T) {
	ws := workspace(t, map[string]string{
		".git/HEAD":        "",
		"App/Project.hcl":  appManifest,
		"Core/Project.hcl": coreManifest,
		"Stackgen/Config.toml": `
compatible_versions = ["14.0"]

[[generation_options]]
kind  = "xcode-project-name"
value = "Workspace"
`,
	})
	r := newTestRunner(t)

	_, err := r.Execute(context.Background(), Options{Dir: ws})
	if serrors.GetCode(err) != serrors.ErrCodeIncompatibleVersionRange {
		t.Fatalf("err = %v, want INCOMPATIBLE_VERSION_RANGE", err)
	}
}

func TestExecuteErrors(t *testing.T) {
	cycleA := `
project "A" {
  target "A" {
    product = "framework"
    dependency "target" {
      name = "B"
    }
  }
  target "B" {
    product = "framework"
    dependency "target" {
      name = "A"
    }
  }
}
`
	unresolved := `
project "A" {
  target "A" {
    product = "framework"
    dependency "target" {
      name = "B"
    }
  }
}
`
	rootRelative := `
project "A" {
  target "A" {
    product = "framework"
    sources = ["//Shared"]
  }
}
`
	tests := []struct {
		name    string
		files   map[string]string
		noRoot  bool
		dir     string
		wantErr serrors.Code
	}{
		{name: "cycle", files: map[string]string{"A/Project.hcl": cycleA}, wantErr: serrors.ErrCodeDependencyCycle},
		{name: "unresolved", files: map[string]string{"A/Project.hcl": unresolved}, wantErr: serrors.ErrCodeUnresolvedDependency},
		{name: "no manifests", files: map[string]string{"README": "x"}, wantErr: serrors.ErrCodeInvalidInput},
		{name: "syntax", files: map[string]string{"A/Project.hcl": "project {"}, wantErr: serrors.ErrCodeInvalidManifestValue},
		{name: "root not found", files: map[string]string{"A/Project.hcl": rootRelative}, noRoot: true, wantErr: serrors.ErrCodeRootDirectoryNotFound},
		{name: "empty path", dir: "-", wantErr: serrors.ErrCodeInvalidInput},
		{
			name: "duplicate target",
			files: map[string]string{"A/Project.hcl": `
project "A" {
  target "T" {
    product = "app"
  }
  target "T" {
    product = "app"
  }
}
`},
			wantErr: serrors.ErrCodeDuplicateTargetIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := ""
			if tt.dir == "" {
				dir = workspace(t, tt.files)
			}
			r := NewRunner(nil, nil, nil)
			if tt.noRoot {
				r.Locator = rootdir.Func(func(string) (string, bool) { return "", false })
			}
			_, err := r.Execute(context.Background(), Options{Dir: dir})
			if got := serrors.GetCode(err); got != tt.wantErr {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.wantErr, err)
			}
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	ws := defaultWorkspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, Options{Dir: ws})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoadStart(context.Context, string) { h.record("load") }
func (h *recordingHooks) OnBuildComplete(_ context.Context, _ int, _ time.Duration, err error) {
	if err == nil {
		h.record("build")
	}
}
func (h *recordingHooks) OnMergeComplete(context.Context, time.Duration, error) { h.record("merge") }

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Dir: defaultWorkspace(t)}); err != nil {
		t.Fatal(err)
	}
	if want := []string{"load", "build", "merge"}; !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Dir: "."}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(opts.Dir) || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}

	empty := Options{}
	if !serrors.Is(empty.ValidateAndSetDefaults(), serrors.ErrCodeInvalidInput) {
		t.Error("empty Dir should be rejected")
	}
}

func TestArtifactCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	doc := graph.Document{Hash: "abc"}
	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("digraph G {}"), nil
	}

	for i := 0; i < 2; i++ {
		data, hit, err := r.Artifact(ctx, doc, cache.ArtifactKeyOpts{Format: "dot"}, render)
		if err != nil || string(data) != "digraph G {}" {
			t.Fatalf("Artifact() = %q, %v", data, err)
		}
		if hit != (i == 1) {
			t.Errorf("run %d: hit = %v", i, hit)
		}
	}
	if calls != 1 {
		t.Errorf("render called %d times", calls)
	}
}
