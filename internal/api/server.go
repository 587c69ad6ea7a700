// Package api serves the resolution pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz         build info
//	POST /v1/graph        full pipeline result
//	POST /v1/graph/dot    Graphviz source of the resolved graph
//	POST /v1/lint         lint issues only
//
// Request bodies are [pipeline.Options] in JSON. Paths are resolved against
// the server's workspace directory and may not leave it.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stackgen/pkg/buildinfo"
	"github.com/matzehuels/stackgen/pkg/cache"
	serrors "github.com/matzehuels/stackgen/pkg/errors"
	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/lint"
	"github.com/matzehuels/stackgen/pkg/pipeline"
)

const (
	maxBodyBytes    = 1 << 20
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 10 * time.Second
)

// Server handles API requests with a shared runner.
type Server struct {
	runner    *pipeline.Runner
	workspace string
	logger    *log.Logger
	router    chi.Router
}

// New creates a server. Request paths are confined to workspace.
func New(runner *pipeline.Runner, workspace string, logger *log.Logger) (*Server, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:    runner,
		workspace: abs,
		logger:    logger.WithPrefix("api"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/graph", s.handleGraph)
		r.Post("/graph/dot", s.handleDOT)
		r.Post("/lint", s.handleLint)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "workspace", s.workspace)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	res, ok := s.execute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type lintResponse struct {
	RunID    string       `json:"run_id"`
	Issues   []lint.Issue `json:"issues"`
	Warnings int          `json:"warnings"`
	Errors   int          `json:"errors"`
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	res, ok := s.execute(w, r)
	if !ok {
		return
	}
	resp := lintResponse{RunID: res.RunID, Issues: res.Issues}
	if resp.Issues == nil {
		resp.Issues = []lint.Issue{}
	}
	resp.Warnings, resp.Errors = lint.Count(res.Issues)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	res, ok := s.execute(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	opts := graph.DOTOptions{Reduce: q.Get("reduce") == "true", Detailed: q.Get("detailed") == "true"}
	key := cache.ArtifactKeyOpts{Format: "dot", Reduce: opts.Reduce, Detailed: opts.Detailed}
	data, _, err := s.runner.Artifact(r.Context(), res.Document, key, func() ([]byte, error) {
		return []byte(graph.ToDOT(res.Document, opts)), nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// execute decodes the options and runs the pipeline. It writes the error
// response itself and reports false on failure.
func (s *Server) execute(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, serrors.Wrap(serrors.ErrCodeInvalidInput, err, "decode request"))
		return nil, false
	}

	dir, err := s.confine(opts.Dir)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	opts.Dir = dir
	opts.Logger = s.logger.With("request_id", requestIDFrom(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return res, true
}

// confine resolves p against the workspace and rejects escapes.
func (s *Server) confine(p string) (string, error) {
	if p == "" {
		p = "."
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.workspace, p)
	}
	p = filepath.Clean(p)
	rel, err := filepath.Rel(s.workspace, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", serrors.New(serrors.ErrCodeInvalidInput, "path %s is outside the workspace", p)
	}
	return p, nil
}

type errorResponse struct {
	Code      serrors.Code `json:"code"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := serrors.GetCode(err)
	status := statusFor(code, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", requestIDFrom(r.Context()))
	}
	if code == "" {
		code = serrors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   serrors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

// statusFor maps error codes to HTTP statuses. Domain validation failures
// are 422 so clients can tell them apart from malformed requests.
func statusFor(code serrors.Code, err error) int {
	switch {
	case serrors.IsValidation(code):
		return http.StatusUnprocessableEntity
	case code == serrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case code == serrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
