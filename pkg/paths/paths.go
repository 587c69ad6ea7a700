// Package paths resolves manifest path expressions to absolute paths.
//
// A manifest may express a path in one of three reference frames:
//
//   - [RelativeToCurrentFile]: relative to the directory of the file that
//     declared the path (the "caller path"), which may differ from the
//     manifest when manifests are composed from helper files
//   - [RelativeToManifest]: relative to the directory holding the manifest
//   - [RelativeToRoot]: relative to the project root found by a
//     [rootdir.Locator] walking upward from the manifest directory
//
// Every expression resolves to exactly one absolute path or fails with a
// typed error. There is no fallback: a root-relative path in a tree without
// a root marker is an error, never the current directory.
//
// A [Context] is created per manifest load and discarded after conversion:
//
//	ctx := paths.NewContext("/work/app", rootdir.New(nil))
//	abs, err := ctx.Resolve(paths.RootRelative("Shared/Info.plist"))
package paths

import (
	"fmt"
	"path/filepath"

	"github.com/matzehuels/stackgen/pkg/rootdir"
)

// Kind is the reference frame of an [Expression].
type Kind int

const (
	// RelativeToManifest resolves against the manifest's directory.
	RelativeToManifest Kind = iota
	// RelativeToCurrentFile resolves against the declaring file's directory.
	RelativeToCurrentFile
	// RelativeToRoot resolves against the located project root.
	RelativeToRoot
)

var kindNames = map[Kind]string{
	RelativeToManifest:    "relative_to_manifest",
	RelativeToCurrentFile: "relative_to_current_file",
	RelativeToRoot:        "relative_to_root",
}

// String returns the manifest spelling of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a manifest spelling to a Kind. The empty string means
// [RelativeToManifest].
func ParseKind(s string) (Kind, bool) {
	if s == "" {
		return RelativeToManifest, true
	}
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Expression is an immutable path in a reference frame.
type Expression struct {
	path       string
	kind       Kind
	callerPath string
}

// ManifestRelative builds a manifest-relative expression.
func ManifestRelative(path string) Expression {
	return Expression{path: path, kind: RelativeToManifest}
}

// RootRelative builds a root-relative expression.
func RootRelative(path string) Expression {
	return Expression{path: path, kind: RelativeToRoot}
}

// FileRelative builds an expression relative to the file at callerPath.
// callerPath is the absolute path of the declaring file, not its directory.
func FileRelative(path, callerPath string) Expression {
	return Expression{path: path, kind: RelativeToCurrentFile, callerPath: callerPath}
}

// NewExpression builds an expression of any kind. callerPath is ignored
// unless kind is [RelativeToCurrentFile].
func NewExpression(kind Kind, path, callerPath string) Expression {
	if kind != RelativeToCurrentFile {
		callerPath = ""
	}
	return Expression{path: path, kind: kind, callerPath: callerPath}
}

// Path returns the unresolved path string.
func (e Expression) Path() string { return e.path }

// Kind returns the reference frame.
func (e Expression) Kind() Kind { return e.kind }

// CallerPath returns the declaring file for file-relative expressions.
func (e Expression) CallerPath() string { return e.callerPath }

// String renders the expression for diagnostics.
func (e Expression) String() string {
	return fmt.Sprintf("%s(%s)", e.kind, e.path)
}

// Context holds the state needed to resolve the paths of one manifest.
type Context struct {
	manifestDir string
	locator     rootdir.Locator
}

// NewContext creates a resolution context for the manifest located in
// manifestDir. A nil locator probes the host file system.
func NewContext(manifestDir string, locator rootdir.Locator) *Context {
	if locator == nil {
		locator = rootdir.New(nil)
	}
	return &Context{manifestDir: filepath.Clean(manifestDir), locator: locator}
}

// ManifestDirectory returns the absolute directory of the manifest.
func (c *Context) ManifestDirectory() string { return c.manifestDir }

// Locator returns the root locator used for root-relative expressions.
func (c *Context) Locator() rootdir.Locator { return c.locator }

// Resolve is shorthand for [Resolve](e, c).
func (c *Context) Resolve(e Expression) (string, error) { return Resolve(e, c) }

// Resolve returns the absolute path e designates within ctx.
//
// It fails with *MissingCallerPathError when a file-relative expression has
// no caller path, and with *RootDirectoryNotFoundError when a root-relative
// expression is resolved in a tree without root markers. An absolute path
// string is kept as is once the frame's own requirements are met.
func Resolve(e Expression, ctx *Context) (string, error) {
	switch e.kind {
	case RelativeToCurrentFile:
		if e.callerPath == "" {
			return "", &MissingCallerPathError{Path: e.path}
		}
		return join(filepath.Dir(e.callerPath), e.path), nil
	case RelativeToManifest:
		return join(ctx.manifestDir, e.path), nil
	case RelativeToRoot:
		root, ok := ctx.locator.Locate(ctx.manifestDir)
		if !ok {
			return "", &RootDirectoryNotFoundError{Path: ctx.manifestDir}
		}
		return join(root, e.path), nil
	default:
		return "", fmt.Errorf("paths: unknown expression kind %d", int(e.kind))
	}
}

func join(base, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(base, rel)
}
