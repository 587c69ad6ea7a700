package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/rootdir"
)

// ConfigFileName is the tool configuration file inside the config directory.
const ConfigFileName = "Config.toml"

// ConfigPath returns where the tool configuration of root lives.
func ConfigPath(root string) string {
	return filepath.Join(root, rootdir.ConfigDirectoryName, ConfigFileName)
}

type configFile struct {
	CompatibleVersions any            `toml:"compatible_versions"`
	GenerationOptions  []configOption `toml:"generation_options"`
}

type configOption struct {
	Kind  string `toml:"kind"`
	Value string `toml:"value"`
}

// LoadConfig reads and decodes the tool configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, serrors.Wrap(serrors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, path)
}

// ParseConfig decodes a TOML tool configuration. Unknown keys are rejected.
//
//	compatible_versions = ["11.0", "11.1"]   # or "all"
//
//	[[generation_options]]
//	kind  = "xcode-project-name"
//	value = "MyApp"
func ParseConfig(data []byte, filename string) (*Config, error) {
	var cf configFile
	md, err := toml.Decode(string(data), &cf)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidManifestValue, err, "parse %s", filename)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, serrors.New(serrors.ErrCodeInvalidManifestValue,
			"%s: unknown keys: %s", filename, strings.Join(keys, ", "))
	}

	cfg := &Config{File: filename}
	switch v := cf.CompatibleVersions.(type) {
	case nil:
	case string:
		cfg.CompatibleVersions = &CompatibleVersions{Tag: v}
	case []any:
		cv := &CompatibleVersions{Tag: "list", Versions: []string{}}
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, serrors.New(serrors.ErrCodeInvalidManifestValue,
					"%s: compatible_versions: versions must be strings", filename)
			}
			cv.Versions = append(cv.Versions, s)
		}
		cfg.CompatibleVersions = cv
	default:
		return nil, serrors.New(serrors.ErrCodeInvalidManifestValue,
			`%s: compatible_versions: expected "all" or a list, got %T`, filename, v)
	}

	for _, o := range cf.GenerationOptions {
		cfg.GenerationOptions = append(cfg.GenerationOptions, GenerationOption{Name: o.Kind, Value: o.Value})
	}
	return cfg, nil
}
