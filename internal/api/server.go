// Package api exposes the rendering pipeline over HTTP.
//
// Routes:
//
//	POST /api/render          full batch; responds with a ZIP attachment
//	POST /api/render/preview  one row; responds with image/png
//	GET  /healthz             liveness probe
//
// Requests are multipart forms; see [decodeRenderRequest] for the field
// set. Failures are reported as a JSON payload {"error": ..., "details":
// ...} with a 4xx status for caller-fixable conditions and 500 for
// unexpected internal faults.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/curiosity110/LabelForge/pkg/fonts"
	"github.com/curiosity110/LabelForge/pkg/pipeline"
)

// Server wires the pipeline runner into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	limits pipeline.Limits
	fonts  *fonts.Source
}

// NewServer creates a server. A nil logger falls back to log.Default();
// zero limits take the pipeline defaults; a nil font source means the
// default typeface.
func NewServer(logger *log.Logger, limits pipeline.Limits, fontSrc *fonts.Source) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: pipeline.NewRunner(logger),
		logger: logger,
		limits: limits,
		fonts:  fontSrc,
	}
}

// Handler builds the chi route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleBatch)
		r.Post("/render/preview", s.handlePreview)
	})
	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", addr)
	return srv.ListenAndServe()
}
