package convert

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/manifest"
	"github.com/matzehuels/stackgen/pkg/model"
	"github.com/matzehuels/stackgen/pkg/paths"
)

// Project converts a project manifest. The project's identity is the
// manifest directory of ctx.
func Project(v manifest.Project, ctx *paths.Context) (model.Project, error) {
	if v.Name == "" {
		return model.Project{}, invalid("project.name", "must not be empty")
	}
	prefix := fmt.Sprintf("project[%s]", v.Name)

	p := model.Project{
		Path:    ctx.ManifestDirectory(),
		Name:    v.Name,
		Targets: make([]model.Target, 0, len(v.Targets)),
	}

	if v.CompatibleVersions != nil {
		cv, err := CompatibleVersions(*v.CompatibleVersions, ctx)
		if err != nil {
			return model.Project{}, within(prefix, err)
		}
		p.CompatibleVersions = &cv
	}

	opts, err := GenerationOptions(v.GenerationOptions, ctx)
	if err != nil {
		return model.Project{}, within(prefix, err)
	}
	p.GenerationOptions = opts

	for _, tv := range v.Targets {
		t, err := Target(tv, ctx)
		if err != nil {
			return model.Project{}, within(prefix, err)
		}
		p.Targets = append(p.Targets, t)
	}
	return p, nil
}

// Target converts a target, resolving its source and resource paths.
func Target(v manifest.Target, ctx *paths.Context) (model.Target, error) {
	if v.Name == "" {
		return model.Target{}, invalid("target.name", "must not be empty")
	}
	if strings.Contains(v.Name, graph.Separator) {
		return model.Target{}, invalid("target.name", "%q must not contain %q", v.Name, graph.Separator)
	}
	prefix := fmt.Sprintf("target[%s]", v.Name)

	product, ok := model.ParseProduct(v.Product)
	if !ok {
		return model.Target{}, invalid(prefix+".product", "unknown product %q", v.Product)
	}

	t := model.Target{
		Name:     v.Name,
		Product:  product,
		BundleID: v.BundleID,
	}

	var err error
	if t.Sources, err = resolvePaths(v.Sources, ctx, prefix+".sources"); err != nil {
		return model.Target{}, err
	}
	if t.Resources, err = resolvePaths(v.Resources, ctx, prefix+".resources"); err != nil {
		return model.Target{}, err
	}
	if t.Settings, err = settings(v.Settings, prefix+".settings"); err != nil {
		return model.Target{}, err
	}

	if v.CompatibleVersions != nil {
		cv, err := CompatibleVersions(*v.CompatibleVersions, ctx)
		if err != nil {
			return model.Target{}, within(prefix, err)
		}
		t.CompatibleVersions = &cv
	}

	for i, dv := range v.Dependencies {
		d, err := Dependency(dv, ctx)
		if err != nil {
			return model.Target{}, within(fmt.Sprintf("%s.dependency[%d]", prefix, i), err)
		}
		t.Dependencies = append(t.Dependencies, d)
	}

	if v.RunAction != nil {
		ra, err := RunAction(*v.RunAction, ctx)
		if err != nil {
			return model.Target{}, within(prefix, err)
		}
		t.RunAction = &ra
	}
	return t, nil
}

// Dependency converts a dependency declaration. Paths of project and
// prebuilt artifact dependencies are resolved.
func Dependency(v manifest.Dependency, ctx *paths.Context) (model.Dependency, error) {
	kind, ok := model.ParseDependencyKind(v.Type)
	if !ok {
		return model.Dependency{}, invalid("type", "unknown dependency kind %q", v.Type)
	}
	d := model.Dependency{Kind: kind, Name: v.Name}

	needsName := !slices.Contains([]model.DependencyKind{
		model.FrameworkDependency, model.LibraryDependency, model.XCFrameworkDependency,
	}, kind)
	needsPath := kind == model.ProjectDependency || !needsName

	if needsName && v.Name == "" {
		return model.Dependency{}, invalid("name", "required for %s dependencies", kind)
	}
	if needsPath {
		if v.Path == nil {
			return model.Dependency{}, invalid("path", "required for %s dependencies", kind)
		}
		p, err := resolvePath(*v.Path, ctx, "path")
		if err != nil {
			return model.Dependency{}, err
		}
		d.Path = p
	}
	return d, nil
}

func resolvePaths(ps []manifest.Path, ctx *paths.Context, field string) ([]string, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(ps))
	for i, p := range ps {
		abs, err := resolvePath(p, ctx, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, abs)
	}
	return out, nil
}

// settings checks that v is a map or object whose values are all strings.
func settings(v cty.Value, field string) (map[string]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, invalid(field, "value is not known")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, invalid(field, "expected a map of strings, got %s", ty.FriendlyName())
	}
	out := make(map[string]string)
	for it := v.ElementIterator(); it.Next(); {
		k, val := it.Element()
		key := k.AsString()
		if val.IsNull() || !val.Type().Equals(cty.String) {
			return nil, invalid(field+"."+key, "expected a string, got %s", val.Type().FriendlyName())
		}
		out[key] = val.AsString()
	}
	return out, nil
}
