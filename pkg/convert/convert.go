// Package convert turns weakly-typed manifest values into model values.
//
// There is one converter per manifest entity kind. Each is a pure function
// of the manifest value and a [paths.Context]: it never touches the file
// system except through the context's root locator, and it fails only with
// a path resolution error (passed through unchanged) or an
// [InvalidManifestValueError] naming the offending field.
//
// [Convert] selects the converter from the value's kind tag. [Projects]
// converts many independent project manifests concurrently.
package convert

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stackgen/pkg/manifest"
	"github.com/matzehuels/stackgen/pkg/model"
	"github.com/matzehuels/stackgen/pkg/paths"
)

// Convert dispatches on value.Kind() and returns the matching model value:
// model.Project, model.Target, model.Dependency, model.Config,
// model.CompatibleVersions, model.GenerationOption, model.RunAction or
// model.Arguments. Both value and pointer manifest types are accepted.
func Convert(value manifest.Value, ctx *paths.Context) (any, error) {
	if value == nil {
		return nil, invalid("kind", "manifest value is nil")
	}
	kind := value.Kind()
	mismatch := func() error {
		return invalid("kind", "value of type %T is tagged %q", value, kind)
	}

	switch kind {
	case manifest.KindProject:
		v, ok := as[manifest.Project](value)
		if !ok {
			return nil, mismatch()
		}
		return result(Project(v, ctx))
	case manifest.KindTarget:
		v, ok := as[manifest.Target](value)
		if !ok {
			return nil, mismatch()
		}
		return result(Target(v, ctx))
	case manifest.KindDependency:
		v, ok := as[manifest.Dependency](value)
		if !ok {
			return nil, mismatch()
		}
		return result(Dependency(v, ctx))
	case manifest.KindConfig:
		v, ok := as[manifest.Config](value)
		if !ok {
			return nil, mismatch()
		}
		return result(Config(v, ctx))
	case manifest.KindCompatibleVersions:
		v, ok := as[manifest.CompatibleVersions](value)
		if !ok {
			return nil, mismatch()
		}
		return result(CompatibleVersions(v, ctx))
	case manifest.KindGenerationOption:
		v, ok := as[manifest.GenerationOption](value)
		if !ok {
			return nil, mismatch()
		}
		return result(GenerationOption(v, ctx))
	case manifest.KindRunAction:
		v, ok := as[manifest.RunAction](value)
		if !ok {
			return nil, mismatch()
		}
		return result(RunAction(v, ctx))
	case manifest.KindArguments:
		v, ok := as[manifest.Arguments](value)
		if !ok {
			return nil, mismatch()
		}
		return result(Arguments(v, ctx))
	default:
		return nil, invalid("kind", "unknown manifest kind %q", kind)
	}
}

func result[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func as[T any](v manifest.Value) (T, bool) {
	switch x := any(v).(type) {
	case T:
		return x, true
	case *T:
		if x != nil {
			return *x, true
		}
	}
	var zero T
	return zero, false
}

// Config converts the tool configuration. A missing version spec accepts
// every version.
func Config(v manifest.Config, ctx *paths.Context) (model.Config, error) {
	cfg := model.DefaultConfig()
	if v.CompatibleVersions != nil {
		cv, err := CompatibleVersions(*v.CompatibleVersions, ctx)
		if err != nil {
			return model.Config{}, within("config", err)
		}
		cfg.CompatibleVersions = cv
	}
	opts, err := GenerationOptions(v.GenerationOptions, ctx)
	if err != nil {
		return model.Config{}, within("config", err)
	}
	cfg.GenerationOptions = opts
	return cfg, nil
}

// CompatibleVersions maps the tag "all" to [model.AllVersions] and the tag
// "list" to [model.VersionList] with the versions in declaration order.
func CompatibleVersions(v manifest.CompatibleVersions, _ *paths.Context) (model.CompatibleVersions, error) {
	switch v.Tag {
	case "all":
		return model.AllVersions(), nil
	case "list":
		for i, s := range v.Versions {
			if s == "" {
				return model.CompatibleVersions{}, invalid(fmt.Sprintf("compatible_versions[%d]", i), "version must not be empty")
			}
		}
		return model.VersionList(v.Versions...), nil
	default:
		return model.CompatibleVersions{}, invalid("compatible_versions", `expected "all" or a list of versions, got %q`, v.Tag)
	}
}

// GenerationOption converts a single option.
func GenerationOption(v manifest.GenerationOption, _ *paths.Context) (model.GenerationOption, error) {
	kind := model.OptionKind(v.Name)
	if !kind.IsKnown() {
		return model.GenerationOption{}, invalid("option", "unknown generation option %q", v.Name)
	}
	if v.Value == "" {
		return model.GenerationOption{}, invalid(fmt.Sprintf("option[%s].value", v.Name), "must not be empty")
	}
	return model.GenerationOption{Kind: kind, Value: v.Value}, nil
}

// GenerationOptions converts an option set in declaration order. Declaring
// the same kind twice in one set is invalid.
func GenerationOptions(vs []manifest.GenerationOption, ctx *paths.Context) (model.GenerationOptions, error) {
	var out model.GenerationOptions
	for _, v := range vs {
		opt, err := GenerationOption(v, ctx)
		if err != nil {
			return nil, err
		}
		if slices.ContainsFunc(out, func(o model.GenerationOption) bool { return o.Kind == opt.Kind }) {
			return nil, invalid(fmt.Sprintf("option[%s]", opt.Kind), "declared more than once")
		}
		out = append(out, opt)
	}
	return out, nil
}

// Arguments converts run action arguments.
func Arguments(v manifest.Arguments, _ *paths.Context) (model.Arguments, error) {
	out := model.Arguments{}
	if len(v.Environment) > 0 {
		out.Environment = make(map[string]string, len(v.Environment))
		for k, val := range v.Environment {
			if k == "" {
				return model.Arguments{}, invalid("arguments.environment", "variable name must not be empty")
			}
			out.Environment[k] = val
		}
	}
	for i, l := range v.Launch {
		if l.Name == "" {
			return model.Arguments{}, invalid(fmt.Sprintf("arguments.launch[%d]", i), "must not be empty")
		}
		out.Launch = append(out.Launch, model.LaunchArgument{Name: l.Name, Enabled: l.Enabled})
	}
	return out, nil
}

// RunAction converts a run action. The configuration defaults to
// [model.DefaultConfigurationName].
func RunAction(v manifest.RunAction, ctx *paths.Context) (model.RunAction, error) {
	ra := model.RunAction{ConfigurationName: v.Configuration}
	if ra.ConfigurationName == "" {
		ra.ConfigurationName = model.DefaultConfigurationName
	}

	if v.Executable != nil {
		if v.Executable.Target == "" {
			return model.RunAction{}, invalid("run_action.executable.target", "must not be empty")
		}
		ref := &model.TargetReference{TargetName: v.Executable.Target}
		if v.Executable.Project != nil {
			p, err := resolvePath(*v.Executable.Project, ctx, "run_action.executable.project")
			if err != nil {
				return model.RunAction{}, err
			}
			ref.ProjectPath = p
		}
		ra.Executable = ref
	}

	if v.Arguments != nil {
		args, err := Arguments(*v.Arguments, ctx)
		if err != nil {
			return model.RunAction{}, within("run_action", err)
		}
		ra.Arguments = &args
	}
	return ra, nil
}

// expression maps a manifest path to a resolver expression.
func expression(p manifest.Path, field string) (paths.Expression, error) {
	if p.Value == "" {
		return paths.Expression{}, invalid(field, "path must not be empty")
	}
	kind, ok := paths.ParseKind(p.Type)
	if !ok {
		return paths.Expression{}, invalid(field, "unknown path type %q", p.Type)
	}
	return paths.NewExpression(kind, p.Value, p.CallerPath), nil
}

func resolvePath(p manifest.Path, ctx *paths.Context, field string) (string, error) {
	expr, err := expression(p, field)
	if err != nil {
		return "", err
	}
	return paths.Resolve(expr, ctx)
}
