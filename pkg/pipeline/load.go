package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/stackgen/pkg/convert"
	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/manifest"
	"github.com/matzehuels/stackgen/pkg/model"
	"github.com/matzehuels/stackgen/pkg/paths"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

// inputs are the raw files of a workspace, read once and used both for the
// cache key and for parsing.
type inputs struct {
	root       string
	configPath string
	config     []byte
	files      []string
	sources    [][]byte
	// roots holds the root located from each manifest directory, empty
	// when none was found. Root-relative paths resolve against it.
	roots []string
}

// readInputs locates the root, reads the tool configuration if present and
// every project manifest below dir.
func readInputs(dir string, locator rootdir.Locator, exists func(string) bool) (*inputs, error) {
	in := &inputs{}
	if root, ok := locator.Locate(dir); ok {
		in.root = root
		if p := manifest.ConfigPath(root); exists(p) {
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
			in.configPath, in.config = p, data
		}
	}

	files, err := manifest.Discover(dir)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "discover manifests in %s", dir)
	}
	if len(files) == 0 {
		return nil, serrors.New(serrors.ErrCodeInvalidInput, "no %s found below %s", manifest.ProjectFileName, dir)
	}
	in.files = files
	in.sources = make([][]byte, len(files))
	in.roots = make([]string, len(files))
	for i, f := range files {
		if in.sources[i], err = os.ReadFile(f); err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		in.roots[i], _ = locator.Locate(filepath.Dir(f))
	}
	return in, nil
}

// hash digests every input file together with its path and located root.
// Paths matter because node identities are absolute project directories;
// roots matter because root-relative paths resolve against them.
func (in *inputs) hash() string {
	h := sha256.New()
	write := func(name, root string, data []byte) {
		fmt.Fprintf(h, "%s\x00%s\x00%d\x00", name, root, len(data))
		h.Write(data)
	}
	write(in.configPath, in.root, in.config)
	for i, f := range in.files {
		write(f, in.roots[i], in.sources[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// loadConfig converts the tool configuration, or returns the defaults when
// the workspace has none.
func (in *inputs) loadConfig(locator rootdir.Locator) (model.Config, error) {
	if in.config == nil {
		return model.DefaultConfig(), nil
	}
	m, err := manifest.ParseConfig(in.config, in.configPath)
	if err != nil {
		return model.Config{}, err
	}
	cfg, err := convert.Config(*m, paths.NewContext(filepath.Dir(in.configPath), locator))
	if err != nil {
		return model.Config{}, fmt.Errorf("%s: %w", in.configPath, err)
	}
	return cfg, nil
}

// loadProjects parses every manifest and converts them in parallel.
func (in *inputs) loadProjects(ctx context.Context, locator rootdir.Locator) ([]model.Project, error) {
	manifests := make([]*manifest.Project, len(in.files))
	for i, f := range in.files {
		m, err := manifest.ParseProject(in.sources[i], f)
		if err != nil {
			return nil, err
		}
		manifests[i] = m
	}
	return convert.Projects(ctx, manifests, locator)
}
