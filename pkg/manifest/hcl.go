package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
)

// ProjectFileName is the file name of project manifests.
const ProjectFileName = "Project.hcl"

// HCL schema. Attributes whose shape varies (paths, version specs, settings)
// are captured as raw cty values and interpreted after decoding.
type projectFile struct {
	Projects []*projectBlock `hcl:"project,block"`
}

type projectBlock struct {
	Name               string         `hcl:"name,label"`
	CompatibleVersions cty.Value      `hcl:"compatible_versions,optional"`
	Options            []*optionBlock `hcl:"option,block"`
	Targets            []*targetBlock `hcl:"target,block"`
}

type optionBlock struct {
	Name  string `hcl:"name,label"`
	Value string `hcl:"value"`
}

type targetBlock struct {
	Name               string             `hcl:"name,label"`
	Product            string             `hcl:"product"`
	BundleID           string             `hcl:"bundle_id,optional"`
	Sources            cty.Value          `hcl:"sources,optional"`
	Resources          cty.Value          `hcl:"resources,optional"`
	Settings           cty.Value          `hcl:"settings,optional"`
	CompatibleVersions cty.Value          `hcl:"compatible_versions,optional"`
	Dependencies       []*dependencyBlock `hcl:"dependency,block"`
	RunAction          *runActionBlock    `hcl:"run_action,block"`
}

type dependencyBlock struct {
	Type string    `hcl:"type,label"`
	Name string    `hcl:"name,optional"`
	Path cty.Value `hcl:"path,optional"`
}

type runActionBlock struct {
	Configuration string           `hcl:"configuration,optional"`
	Executable    *executableBlock `hcl:"executable,block"`
	Arguments     *argumentsBlock  `hcl:"arguments,block"`
}

type executableBlock struct {
	Project cty.Value `hcl:"project,optional"`
	Target  string    `hcl:"target"`
}

type argumentsBlock struct {
	Environment map[string]string `hcl:"environment,optional"`
	Launch      []*launchBlock    `hcl:"launch,block"`
}

type launchBlock struct {
	Name    string `hcl:"name,label"`
	Enabled *bool  `hcl:"enabled,optional"`
}

// LoadProject reads and decodes the project manifest at path.
func LoadProject(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "resolve %s", path)
	}
	src, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return nil, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "manifest %s", abs)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseProject(src, abs)
}

// ParseProject decodes a project manifest from src. filename is used in
// diagnostics and as the caller path of relative_to_current_file paths.
func ParseProject(src []byte, filename string) (*Project, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidManifestValue, diags, "parse %s", filename)
	}

	var root projectFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(filename), &root); diags.HasErrors() {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidManifestValue, diags, "decode %s", filename)
	}
	if len(root.Projects) != 1 {
		return nil, serrors.New(serrors.ErrCodeInvalidManifestValue,
			"%s: expected exactly one project block, found %d", filename, len(root.Projects))
	}

	p, err := translateProject(root.Projects[0])
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidManifestValue, err, "%s", filename)
	}
	p.File = filename
	return p, nil
}

func translateProject(b *projectBlock) (*Project, error) {
	p := &Project{Name: b.Name}

	var err error
	if p.CompatibleVersions, err = decodeVersions(b.CompatibleVersions); err != nil {
		return nil, fmt.Errorf("project %q: compatible_versions: %w", b.Name, err)
	}
	for _, o := range b.Options {
		p.GenerationOptions = append(p.GenerationOptions, GenerationOption{Name: o.Name, Value: o.Value})
	}
	for _, tb := range b.Targets {
		t, err := translateTarget(tb)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", tb.Name, err)
		}
		p.Targets = append(p.Targets, t)
	}
	return p, nil
}

func translateTarget(b *targetBlock) (Target, error) {
	t := Target{
		Name:     b.Name,
		Product:  b.Product,
		BundleID: b.BundleID,
		Settings: b.Settings,
	}

	var err error
	if t.Sources, err = decodePaths(b.Sources); err != nil {
		return t, fmt.Errorf("sources: %w", err)
	}
	if t.Resources, err = decodePaths(b.Resources); err != nil {
		return t, fmt.Errorf("resources: %w", err)
	}
	if t.CompatibleVersions, err = decodeVersions(b.CompatibleVersions); err != nil {
		return t, fmt.Errorf("compatible_versions: %w", err)
	}

	for i, db := range b.Dependencies {
		d := Dependency{Type: db.Type, Name: db.Name}
		if !db.Path.IsNull() {
			p, err := decodePath(db.Path)
			if err != nil {
				return t, fmt.Errorf("dependency %d: path: %w", i, err)
			}
			d.Path = &p
		}
		t.Dependencies = append(t.Dependencies, d)
	}

	if b.RunAction != nil {
		if t.RunAction, err = translateRunAction(b.RunAction); err != nil {
			return t, fmt.Errorf("run_action: %w", err)
		}
	}
	return t, nil
}

func translateRunAction(b *runActionBlock) (*RunAction, error) {
	ra := &RunAction{Configuration: b.Configuration}
	if b.Executable != nil {
		ref := &TargetReference{Target: b.Executable.Target}
		if !b.Executable.Project.IsNull() {
			p, err := decodePath(b.Executable.Project)
			if err != nil {
				return nil, fmt.Errorf("executable: project: %w", err)
			}
			ref.Project = &p
		}
		ra.Executable = ref
	}
	if b.Arguments != nil {
		args := &Arguments{Environment: b.Arguments.Environment}
		for _, l := range b.Arguments.Launch {
			enabled := l.Enabled == nil || *l.Enabled
			args.Launch = append(args.Launch, LaunchArgument{Name: l.Name, Enabled: enabled})
		}
		ra.Arguments = args
	}
	return ra, nil
}

// pathType is the object produced by the path functions.
var pathType = cty.Object(map[string]cty.Type{
	"type":        cty.String,
	"value":       cty.String,
	"caller_path": cty.String,
})

func evalContext(filename string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			PathRelativeToManifest:    pathFunc(PathRelativeToManifest, ""),
			PathRelativeToRoot:        pathFunc(PathRelativeToRoot, ""),
			PathRelativeToCurrentFile: pathFunc(PathRelativeToCurrentFile, filename),
		},
	}
}

func pathFunc(kind, caller string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "path", Type: cty.String}},
		Type:   function.StaticReturnType(pathType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.ObjectVal(map[string]cty.Value{
				"type":        cty.StringVal(kind),
				"value":       args[0],
				"caller_path": cty.StringVal(caller),
			}), nil
		},
	})
}

func decodePaths(v cty.Value) ([]Path, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	ty := v.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, fmt.Errorf("expected a list of paths, got %s", ty.FriendlyName())
	}
	var out []Path
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		p, err := decodePath(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", len(out), err)
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePath(v cty.Value) (Path, error) {
	if v.IsNull() || !v.IsWhollyKnown() {
		return Path{}, fmt.Errorf("path must be set")
	}
	ty := v.Type()
	switch {
	case ty.Equals(cty.String):
		return parsePathString(v.AsString()), nil
	case ty.IsObjectType() && ty.Equals(pathType):
		return Path{
			Type:       v.GetAttr("type").AsString(),
			Value:      v.GetAttr("value").AsString(),
			CallerPath: v.GetAttr("caller_path").AsString(),
		}, nil
	}
	return Path{}, fmt.Errorf("expected a path, got %s", ty.FriendlyName())
}

// parsePathString interprets a bare path string. A leading "//" makes the
// path root-relative.
func parsePathString(s string) Path {
	if rest, ok := strings.CutPrefix(s, "//"); ok {
		return Path{Type: PathRelativeToRoot, Value: rest}
	}
	return Path{Type: PathRelativeToManifest, Value: s}
}

func decodeVersions(v cty.Value) (*CompatibleVersions, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	ty := v.Type()
	if ty.Equals(cty.String) {
		return &CompatibleVersions{Tag: v.AsString()}, nil
	}
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf(`expected "all" or a list of versions, got %s`, ty.FriendlyName())
	}
	cv := &CompatibleVersions{Tag: "list", Versions: []string{}}
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() || !elem.Type().Equals(cty.String) {
			return nil, fmt.Errorf("versions must be strings")
		}
		cv.Versions = append(cv.Versions, elem.AsString())
	}
	return cv, nil
}
