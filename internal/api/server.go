// Package api exposes the diagram pipeline over HTTP: post a topology
// document, get a draw.io file back. The server is stateless; every
// request runs the full classify → layout → render pipeline.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/krhatland/cloudnetdraw-go/pkg/config"
	apperrors "github.com/krhatland/cloudnetdraw-go/pkg/errors"
	"github.com/krhatland/cloudnetdraw-go/pkg/layout"
	"github.com/krhatland/cloudnetdraw-go/pkg/render/drawio"
	"github.com/krhatland/cloudnetdraw-go/pkg/topology"
)

// Server handles diagram-rendering requests.
type Server struct {
	cfg *config.Config
	log *log.Logger
}

// NewServer returns a server rendering with the given configuration. A nil
// logger silences diagnostics.
func NewServer(cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{cfg: cfg, log: logger}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/diagrams/hld", s.handleDiagram(layout.ModeHLD))
		r.Post("/diagrams/mld", s.handleDiagram(layout.ModeMLD))
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleDiagram reads a topology document from the request body and
// responds with the rendered draw.io document.
func (s *Server) handleDiagram(mode layout.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topo, err := topology.Read(r.Body)
		if err != nil {
			s.writeError(w, err)
			return
		}

		d, err := layout.NewEngine(s.cfg, mode, s.log).Build(topo)
		if err != nil {
			s.writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/xml")
		w.Header().Set("Content-Disposition", `attachment; filename="network.drawio"`)
		if err := drawio.Write(w, d, s.cfg); err != nil {
			s.log.Error("write diagram", "err", err)
		}
	}
}

// writeError maps error codes to HTTP statuses and emits a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeEmptyTopology, apperrors.ErrCodeInvalidTopology, apperrors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	s.log.Warn("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(apperrors.JSON(err))
}
