// Package feed serves the poller's in-process cache over HTTP: the same view
// of the incident set the answer pipeline ingests. The gateway reads from here
// first so list responses and AI answers never disagree.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/opsdeck/incident-intel/internal/cache"
	"github.com/opsdeck/incident-intel/internal/metrics"
)

type Server struct {
	router *chi.Mux
	cache  *cache.Cache
	port   int
	logger *slog.Logger
}

func NewServer(port int, c *cache.Cache, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		cache:  c,
		port:   port,
		logger: logger,
	}

	router.Get("/incidents", s.incidents)
	router.Get("/health", s.health)
	router.Handle("/metrics", metrics.Handler())

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.port)
}

// incidents returns the current snapshot. Never blocks on the store; the reply
// is whatever the poller last published, an empty array before that.
func (s *Server) incidents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s.cache.Incidents()); err != nil {
		s.logger.Error("encode incidents", "error", err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":          "ok",
		"incidents_count": s.cache.Len(),
	})
}
