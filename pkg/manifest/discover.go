package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/matzehuels/stackgen/pkg/rootdir"
)

// Discover returns the absolute paths of every project manifest below dir,
// in lexical order. Version-control and tool-configuration directories are
// not searched.
func Discover(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && (d.Name() == rootdir.GitDirectoryName || d.Name() == rootdir.ConfigDirectoryName) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == ProjectFileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
