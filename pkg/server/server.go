// Package server serves a documentation tree with placeholders resolved on
// every page load.
//
// HTML pages are read from disk and passed through a [pipeline.Runner] for
// each request, so a reload always reflects the repository's current
// versions. Other files are served as-is.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/docver/pkg/buildinfo"
	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/pipeline"
	"github.com/matzehuels/docver/pkg/placeholder"
)

// RenderIDHeader carries the id under which a page load was logged.
const RenderIDHeader = "X-Render-Id"

const shutdownTimeout = 5 * time.Second

// Server is an http.Handler for one documentation root.
type Server struct {
	root    string
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics http.Handler
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New creates a server for the directory root.
func New(root string, runner *pipeline.Runner, logger *log.Logger, opts ...Option) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidPath, err, "resolve %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidPath, err, "docs root %s", root)
	}
	if !info.IsDir() {
		return nil, derrors.New(derrors.ErrCodeInvalidPath, "docs root %s is not a directory", root)
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{root: abs, runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/*", s.handleFile)
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
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("serving docs", "root", s.root, "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	file, ok := s.lookup(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if placeholder.FormatForPath(file) != placeholder.FormatHTML {
		http.ServeFile(w, r, file)
		return
	}
	s.servePage(w, r, file)
}

// lookup maps a URL path below the root to a regular file, using index.html
// for directories.
func (s *Server) lookup(urlPath string) (string, bool) {
	if err := derrors.ValidatePath(urlPath); err != nil {
		return "", false
	}
	clean := path.Clean("/" + urlPath)
	file := filepath.Join(s.root, filepath.FromSlash(clean))
	if rel, err := filepath.Rel(s.root, file); err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}

	info, err := os.Stat(file)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		file = filepath.Join(file, "index.html")
		if info, err = os.Stat(file); err != nil {
			return "", false
		}
	}
	if !info.Mode().IsRegular() {
		return "", false
	}
	return file, true
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, file string) {
	renderID := uuid.NewString()
	logger := s.logger.With("render", renderID, "request", middleware.GetReqID(r.Context()))

	content, err := os.ReadFile(file)
	if err != nil {
		logger.Error("read page", "file", file, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	name, _ := filepath.Rel(s.root, file)
	doc := pipeline.Document{Name: filepath.ToSlash(name), Format: placeholder.FormatHTML, Content: content}
	res, err := s.runner.WithLogger(logger).Process(r.Context(), doc)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		logger.Error("render page", "file", file, "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set(RenderIDHeader, renderID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Content)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request", middleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr)
	})
}
