package graph_test

import (
	"errors"
	"fmt"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/model"
)

func ExampleBuild() {
	projects := []model.Project{
		{
			Path: "/work/App",
			Name: "App",
			Targets: []model.Target{
				{Name: "App", Product: model.App, Dependencies: []model.Dependency{
					{Kind: model.TargetDependency, Name: "AppKit"},
					{Kind: model.ProjectDependency, Path: "/work/Core", Name: "Core"},
				}},
				{Name: "AppKit", Product: model.Framework, Dependencies: []model.Dependency{
					{Kind: model.SDKDependency, Name: "StoreKit.framework"},
				}},
			},
		},
		{
			Path:    "/work/Core",
			Name:    "Core",
			Targets: []model.Target{{Name: "Core", Product: model.Framework}},
		},
	}

	g, err := graph.Build(projects)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, id := range g.Order() {
		fmt.Println(id)
	}
	n, _ := g.Node(graph.NodeID{Project: "/work/App", Target: "AppKit"})
	fmt.Println("external:", n.External[0].Reference())
	// Output:
	// /work/App:AppKit
	// /work/Core:Core
	// /work/App:App
	// external: StoreKit.framework
}

func ExampleDependencyCycleError() {
	target := func(name, dep string) model.Target {
		return model.Target{Name: name, Product: model.Framework, Dependencies: []model.Dependency{
			{Kind: model.TargetDependency, Name: dep},
		}}
	}
	_, err := graph.Build([]model.Project{{
		Path:    "/p",
		Name:    "P",
		Targets: []model.Target{target("A", "B"), target("B", "C"), target("C", "A")},
	}})

	var cycle *graph.DependencyCycleError
	if errors.As(err, &cycle) {
		fmt.Println(cycle.Path)
	}
	fmt.Println(serrors.GetCode(err))
	// Output:
	// [/p:A /p:B /p:C]
	// DEPENDENCY_CYCLE
}
