// Package pkg holds the libraries behind stackgen, which turns a workspace
// of Project.hcl manifests into a validated dependency graph of targets.
//
// # Data flow
//
//	Project.hcl files, Stackgen/Config.toml
//	         ↓
//	    [manifest] parse HCL and TOML into descriptors
//	         ↓
//	    [convert] resolve paths via [paths] and [rootdir], build [model] values
//	         ↓
//	    [graph] target graph on top of [dag]: duplicates, unresolved
//	            dependencies and cycles are rejected
//	         ↓
//	    [merge] generation options and compatible versions
//	         ↓
//	    [lint] questionable declarations
//
// [pipeline] runs these stages with caching through [cache] and reports
// progress through [observability]. Every failure carries a code from
// [errors] so the CLI and the HTTP API can classify it.
//
// # Quick start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{Dir: "."})
//	if err != nil {
//	    log.Fatal(errors.UserMessage(err))
//	}
//	for _, id := range res.Document.Order {
//	    fmt.Println(id)
//	}
package pkg
