// Package server exposes the layout engine over HTTP.
//
// The API mirrors the library surface: grid derivation, placement
// planning, fit resolution, and store-backed document CRUD. Plan and fit
// requests carry a full document and return the updated document, so the
// server itself holds no layout state between requests. A client that
// sends the X-Session-ID header gets latest-wins submission: a newer plan
// for the same session cancels the one still in flight.
//
// # Endpoints
//
//	POST   /api/v1/grid                    derive a grid, return the summary
//	POST   /api/v1/plan                    reflow a document onto a new grid
//	POST   /api/v1/fit                     resolve one block's span
//	GET    /api/v1/documents               list stored documents
//	POST   /api/v1/documents               store a document
//	GET    /api/v1/documents/{id}          fetch a stored document
//	GET    /api/v1/documents/{id}/preview  render a stored document as SVG
//	DELETE /api/v1/documents/{id}          remove a stored document
//	GET    /healthz                        liveness and version
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/longplay45/swissgrid/pkg/document/store"
	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/layout/dispatch"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// sessionHeader names the optional client session for latest-wins
// planning.
const sessionHeader = "X-Session-ID"

// shutdownTimeout bounds how long an exiting server waits for in-flight
// requests.
const shutdownTimeout = 5 * time.Second

// Server handles the HTTP API. It owns a pipeline runner for layout work
// and a document store for persistence.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger

	mu    sync.Mutex
	sites map[string]*dispatch.Site
}

// New creates a server. A nil runner gets the default inline runner; a
// nil logger gets the default logger. The store may be nil, in which case
// the document endpoints report STORE_UNAVAILABLE.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, logger)
	}
	return &Server{
		runner: runner,
		store:  st,
		logger: logger,
		sites:  make(map[string]*dispatch.Site),
	}
}

// Handler builds the chi router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/grid", s.handleGrid)
		r.Post("/plan", s.handlePlan)
		r.Post("/fit", s.handleFit)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)
			r.Get("/{id}", s.handleGetDocument)
			r.Get("/{id}/preview", s.handlePreviewDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
		})
	})
	return r
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(errors.ErrCodeInternal, err, "serve on %s", addr)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// session returns the executor plan and fit requests should go through:
// the shared executor when no session is named, otherwise a latest-wins
// site scoped to the session.
func (s *Server) session(id string) dispatch.Executor {
	if id == "" {
		return s.runner.Executor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[id]
	if !ok {
		site = dispatch.NewSite(s.runner.Executor)
		s.sites[id] = site
	}
	return siteExecutor{site}
}

// sessionRunner builds a per-request runner routed through the session's
// executor. The runner shares the server's logger and must not be closed;
// the underlying executor belongs to the server.
func (s *Server) sessionRunner(r *http.Request) *pipeline.Runner {
	return &pipeline.Runner{
		Executor: s.session(r.Header.Get(sessionHeader)),
		Logger:   s.logger,
	}
}

// siteExecutor adapts a latest-wins site to the executor interface so a
// document reflow can submit through it. Cancel withdraws whatever the
// site currently has in flight; Close leaves the shared executor alone.
type siteExecutor struct {
	site *dispatch.Site
}

func (e siteExecutor) Submit(req dispatch.Request) *dispatch.Pending { return e.site.Submit(req) }
func (e siteExecutor) Cancel(uint64) bool                            { return e.site.Cancel() }
func (e siteExecutor) Close() error                                  { return nil }

// logRequests logs one line per request with the chi request ID.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
