package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/opsdeck/incident-intel/internal/events"
	"github.com/opsdeck/incident-intel/internal/feed"
	"github.com/opsdeck/incident-intel/internal/incident"
	"github.com/opsdeck/incident-intel/internal/metrics"
	"github.com/opsdeck/incident-intel/internal/rag"
	"github.com/opsdeck/incident-intel/internal/store"
	"github.com/opsdeck/incident-intel/internal/ws"
)

// Placeholder identities until auth lands; these must exist in the hosted
// store to pass its row-level security.
var (
	defaultOrgID      = uuid.MustParse("24bae8af-2d39-4a91-ab94-59be032a8e23")
	defaultReporterID = uuid.MustParse("a3204998-c81b-487b-9763-bcf58e80da4d")
)

type Server struct {
	router   *chi.Mux
	port     int
	store    *store.Client
	feed     *feed.Client
	rag      *rag.Client
	registry *ws.Registry
	mirror   *events.Publisher
	logger   *slog.Logger
	ids      idClock
}

func NewServer(port int, st *store.Client, fd *feed.Client, rg *rag.Client, registry *ws.Registry, mirror *events.Publisher, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		store:    st,
		feed:     fd,
		rag:      rg,
		registry: registry,
		mirror:   mirror,
		logger:   logger,
	}

	router.Get("/", s.root)
	router.Get("/api/health", s.health)
	router.Get("/api/incidents", s.listIncidents)
	router.Get("/api/incidents/search", s.searchIncidents)
	router.Get("/api/live-updates", s.liveUpdates)
	router.Post("/api/incidents", s.createIncident)
	router.Patch("/api/incidents/{id}", s.updateIncident)
	router.Post("/api/incidents/{id}/soft-delete", s.softDeleteIncident)
	router.Delete("/api/incidents/{id}", s.softDeleteIncident)
	router.Post("/api/chat", s.chat)
	router.Get("/ws/incidents", registry.Handle)
	router.Get("/ws/updates", registry.Handle) // legacy alias
	router.Handle("/metrics", metrics.Handler())

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.port)
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Incident Intelligence API",
		"endpoints": map[string]string{
			"crud":      "/api/incidents",
			"search":    "/api/incidents/search",
			"chat":      "/api/chat",
			"websocket": "/ws/incidents",
		},
	})
}

// health reports reachability of the two collaborators. Probes run with short
// deadlines so a dead collaborator cannot stall the endpoint.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ragStatus := "unreachable"
	if s.rag.Reachable(r.Context()) {
		ragStatus = "running"
	}
	storeStatus := "unreachable"
	if err := s.store.Ping(r.Context()); err == nil {
		storeStatus = "connected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "Incident Intelligence API",
		"rag":     ragStatus,
		"store":   storeStatus,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// idClock issues canonical wall-clock identifiers. Two creates in the same
// second would collide; within one process the clock bumps the second instead.
// Two gateway processes can still collide — a known limitation of the scheme.
type idClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *idClock) next(now time.Time) (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := now.Truncate(time.Second)
	if !t.After(c.last) {
		t = c.last.Add(time.Second)
	}
	c.last = t
	return incident.NewID(t), t
}
