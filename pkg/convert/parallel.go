package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackgen/pkg/manifest"
	"github.com/matzehuels/stackgen/pkg/model"
	"github.com/matzehuels/stackgen/pkg/paths"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

// Projects converts independent project manifests concurrently. Each
// manifest gets its own [paths.Context] rooted at the directory of its file;
// the locator is shared and must be safe for concurrent use (see
// [rootdir.NewCached]).
//
// The result is in input order. The first failure cancels the remaining work
// and is returned annotated with the manifest file.
func Projects(ctx context.Context, manifests []*manifest.Project, locator rootdir.Locator) ([]model.Project, error) {
	for i, m := range manifests {
		if m == nil {
			return nil, invalid(fmt.Sprintf("projects[%d]", i), "manifest is nil")
		}
	}

	out := make([]model.Project, len(manifests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, m := range manifests {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pctx := paths.NewContext(filepath.Dir(m.File), locator)
			p, err := Project(*m, pctx)
			if err != nil {
				return fmt.Errorf("%s: %w", m.File, err)
			}
			out[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
