package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackgen/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logHooks reports pipeline stages at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	observability.SetPipelineHooks(logHooks{logger: l.WithPrefix("hooks")})
}

func (h logHooks) OnLoadStart(_ context.Context, dir string) {
	h.logger.Debug("load started", "dir", dir)
}

func (h logHooks) OnLoadComplete(_ context.Context, dir string, manifests int, d time.Duration, err error) {
	h.done("load", d, err, "dir", dir, "manifests", manifests)
}

func (h logHooks) OnBuildStart(_ context.Context, projects int) {
	h.logger.Debug("build started", "projects", projects)
}

func (h logHooks) OnBuildComplete(_ context.Context, nodes int, d time.Duration, err error) {
	h.done("build", d, err, "nodes", nodes)
}

func (h logHooks) OnMergeStart(_ context.Context, nodes int) {
	h.logger.Debug("merge started", "nodes", nodes)
}

func (h logHooks) OnMergeComplete(_ context.Context, d time.Duration, err error) {
	h.done("merge", d, err)
}

func (h logHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Microsecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "error", err)...)
		return
	}
	h.logger.Debug(stage+" complete", kv...)
}
