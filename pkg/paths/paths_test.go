package paths

import (
	"errors"
	"path/filepath"
	"testing"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/fsys"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

func TestResolve(t *testing.T) {
	loc := rootdir.New(fsys.NewMap("/work/.git", "/work/apps/ios/Project.hcl"))
	ctx := NewContext("/work/apps/ios", loc)

	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"manifest relative", ManifestRelative("Sources"), "/work/apps/ios/Sources"},
		{"manifest relative nested", ManifestRelative("Resources/Info.plist"), "/work/apps/ios/Resources/Info.plist"},
		{"manifest relative parent", ManifestRelative("../shared"), "/work/apps/shared"},
		{"root relative", RootRelative("Shared/Config.xcconfig"), "/work/Shared/Config.xcconfig"},
		{"file relative", FileRelative("Helpers", "/work/templates/Target.hcl"), "/work/templates/Helpers"},
		{"absolute stays", ManifestRelative("/opt/sdk"), "/opt/sdk"},
		{"absolute root relative", RootRelative("/opt/sdk/"), "/opt/sdk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.expr, ctx)
			if err != nil {
				t.Fatalf("Resolve(%v) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestResolveManifestRelativeIsJoin(t *testing.T) {
	ctx := NewContext("/m", rootdir.Func(func(string) (string, bool) { return "", false }))
	for _, p := range []string{"a", "a/b", "a/b/c.swift", "x.y"} {
		got, err := ctx.Resolve(ManifestRelative(p))
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", p, err)
		}
		if want := filepath.Join("/m", p); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestResolveMissingCallerPath(t *testing.T) {
	ctx := NewContext("/work", nil)
	_, err := Resolve(NewExpression(RelativeToCurrentFile, "Sources", ""), ctx)

	var mcp *MissingCallerPathError
	if !errors.As(err, &mcp) {
		t.Fatalf("Resolve() error = %v, want *MissingCallerPathError", err)
	}
	if mcp.Path != "Sources" {
		t.Errorf("Path = %q, want %q", mcp.Path, "Sources")
	}
	if serrors.GetCode(err) != serrors.ErrCodeMissingCallerPath {
		t.Errorf("GetCode() = %v", serrors.GetCode(err))
	}
}

func TestResolveRootNotFound(t *testing.T) {
	ctx := NewContext("/work/apps/ios", rootdir.New(fsys.NewMap("/work/apps/ios/Project.hcl")))

	_, err := Resolve(RootRelative("Shared"), ctx)
	var rnf *RootDirectoryNotFoundError
	if !errors.As(err, &rnf) {
		t.Fatalf("Resolve() error = %v, want *RootDirectoryNotFoundError", err)
	}
	if rnf.Path != "/work/apps/ios" {
		t.Errorf("Path = %q, want the manifest directory", rnf.Path)
	}
	if !serrors.Is(err, serrors.ErrCodeRootDirectoryNotFound) {
		t.Errorf("error should carry %s", serrors.ErrCodeRootDirectoryNotFound)
	}
}

func TestResolveDeterministic(t *testing.T) {
	ctx := NewContext("/work/apps/ios", rootdir.New(fsys.NewMap("/work/Stackgen")))
	first, err := Resolve(RootRelative("a/b"), ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Resolve(RootRelative("a/b"), ctx)
		if err != nil || again != first {
			t.Fatalf("run %d: got (%q, %v), want %q", i, again, err, first)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"", RelativeToManifest, true},
		{"relative_to_manifest", RelativeToManifest, true},
		{"relative_to_current_file", RelativeToCurrentFile, true},
		{"relative_to_root", RelativeToRoot, true},
		{"relative_to_home", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseKind(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewExpressionDropsCallerPath(t *testing.T) {
	e := NewExpression(RelativeToRoot, "x", "/caller/File.hcl")
	if e.CallerPath() != "" {
		t.Errorf("CallerPath() = %q, want empty for root-relative", e.CallerPath())
	}
	f := NewExpression(RelativeToCurrentFile, "x", "/caller/File.hcl")
	if f.CallerPath() != "/caller/File.hcl" {
		t.Errorf("CallerPath() = %q", f.CallerPath())
	}
}
