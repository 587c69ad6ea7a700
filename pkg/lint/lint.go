// Package lint reports questionable but buildable constructs in a resolved
// graph. Unlike graph and merge errors, issues do not stop a run unless the
// caller decides so (see [HasErrors]).
package lint

import (
	"fmt"

	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/model"
)

// Severity of an [Issue].
type Severity string

const (
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Issue is a single finding attached to a node.
type Issue struct {
	Severity Severity     `json:"severity"`
	Rule     string       `json:"rule"`
	Node     graph.NodeID `json:"node"`
	Message  string       `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s (%s)", i.Severity, i.Node, i.Message, i.Rule)
}

// Rule checks one node.
type Rule struct {
	Name  string
	Check func(g *graph.Graph, n graph.Node) []Issue
}

// Rules is the default rule set, applied in this order.
var Rules = []Rule{
	{Name: "no-sources", Check: noSources},
	{Name: "duplicate-dependency", Check: duplicateDependency},
	{Name: "run-action-executable", Check: runActionExecutable},
	{Name: "app-dependency", Check: appDependency},
}

// Lint runs [Rules] over every node in declaration order.
func Lint(g *graph.Graph) []Issue {
	return Run(g, Rules...)
}

// Run applies rules to every node in declaration order. Issues of one node
// follow the order of rules.
func Run(g *graph.Graph, rules ...Rule) []Issue {
	var issues []Issue
	for _, n := range g.Nodes() {
		for _, r := range rules {
			for _, issue := range r.Check(g, n) {
				issue.Rule = r.Name
				issue.Node = n.ID
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

// HasErrors reports whether any issue has [Error] severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of warnings and errors.
func Count(issues []Issue) (warnings, errors int) {
	for _, i := range issues {
		switch i.Severity {
		case Warning:
			warnings++
		case Error:
			errors++
		}
	}
	return warnings, errors
}

func noSources(_ *graph.Graph, n graph.Node) []Issue {
	if len(n.Target.Sources) > 0 || n.Target.Product == model.Bundle {
		return nil
	}
	return []Issue{{Severity: Warning, Message: "target has no source files"}}
}

func duplicateDependency(_ *graph.Graph, n graph.Node) []Issue {
	var issues []Issue
	seen := make(map[model.Dependency]bool)
	for _, dep := range n.Target.Dependencies {
		if seen[dep] {
			issues = append(issues, Issue{
				Severity: Warning,
				Message:  fmt.Sprintf("%s dependency %s is declared more than once", dep.Kind, dep.Reference()),
			})
			continue
		}
		seen[dep] = true
	}
	return issues
}

func runActionExecutable(g *graph.Graph, n graph.Node) []Issue {
	ra := n.Target.RunAction
	if ra == nil || ra.Executable == nil {
		return nil
	}
	id := graph.NodeID{Project: ra.Executable.ProjectPath, Target: ra.Executable.TargetName}
	if id.Project == "" {
		id.Project = n.ID.Project
	}
	exe, ok := g.Node(id)
	if !ok {
		return []Issue{{Severity: Error, Message: fmt.Sprintf("run action executable %s is not part of the build", id)}}
	}
	if !exe.Target.Product.IsRunnable() {
		return []Issue{{Severity: Warning, Message: fmt.Sprintf("run action executable %s is a %s and cannot be launched", id, exe.Target.Product)}}
	}
	return nil
}

func appDependency(g *graph.Graph, n graph.Node) []Issue {
	switch n.Target.Product {
	case model.UnitTests, model.UITests:
		return nil
	}
	var issues []Issue
	for _, dep := range g.Dependencies(n.ID) {
		if d, ok := g.Node(dep); ok && d.Target.Product == model.App {
			issues = append(issues, Issue{
				Severity: Error,
				Message:  fmt.Sprintf("%s depends on app %s; only test targets may", n.Target.Product, dep),
			})
		}
	}
	return issues
}
