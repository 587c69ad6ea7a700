// Package cli implements the stackgen command-line interface.
//
// Commands resolve a workspace of Project.hcl manifests into a dependency
// graph through [pipeline.Runner] and print the result:
//   - graph: build order, JSON document, DOT or SVG
//   - lint: manifest lint findings
//   - root: the root directory a path resolves against
//   - explore: interactive graph browser
//   - serve: the HTTP API
//   - cache: manage the local result cache
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackgen/pkg/buildinfo"
	"github.com/matzehuels/stackgen/pkg/cache"
	"github.com/matzehuels/stackgen/pkg/pipeline"
)

const appName = "stackgen"

// Cache backends selectable with --cache.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Environment variables for the shared cache backends.
const (
	envRedisAddr = "STACKGEN_REDIS_ADDR"
	envMongoURI  = "STACKGEN_MONGO_URI"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cacheBackend string
	redisAddr    string
	mongoURI     string
	verbose      bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:       newLogger(w, level),
		cacheBackend: backendFile,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackgen resolves project manifests into a dependency graph",
		Long:         `Stackgen loads Project.hcl manifests, resolves their paths against the workspace root, and builds a validated, ordered dependency graph of targets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.cacheBackend, "cache", backendFile,
		"result cache backend: file, redis, mongo or none")
	root.PersistentFlags().StringVar(&c.redisAddr, "redis-addr", envOr(envRedisAddr, "localhost:6379"),
		"redis address for --cache redis (env "+envRedisAddr+")")
	root.PersistentFlags().StringVar(&c.mongoURI, "mongo-uri", os.Getenv(envMongoURI),
		"mongodb URI for --cache mongo (env "+envMongoURI+")")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.lintCommand())
	root.AddCommand(c.rootCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the selected cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch strings.ToLower(c.cacheBackend) {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr})
	case backendMongo:
		if c.mongoURI == "" {
			return nil, fmt.Errorf("--mongo-uri or %s is required for the mongo cache", envMongoURI)
		}
		return cache.NewMongoCache(ctx, cache.MongoConfig{URI: c.mongoURI})
	case backendFile, "":
		dir, err := cache.DefaultDir(appName)
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.cacheBackend)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// workspaceDir returns the first argument or the working directory.
func workspaceDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
