package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opsdeck/incident-intel/internal/feed"
	"github.com/opsdeck/incident-intel/internal/incident"
	"github.com/opsdeck/incident-intel/internal/metrics"
	"github.com/opsdeck/incident-intel/internal/store"
)

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Status      string `json:"status"`
	Location    string `json:"location"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
	Status      *string `json:"status"`
	Location    *string `json:"location"`
	AssigneeID  *string `json:"assignee_id"`
}

// listIncidents reads from the feed first so the list matches what the answer
// pipeline sees. Only a refused connection falls back to the store; any other
// failure degrades to an empty list.
func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()

	incidents, err := s.feed.Incidents(r.Context())
	if err == nil {
		writeJSON(w, http.StatusOK, incident.ViewsOf(incidents, now))
		return
	}
	if !errors.Is(err, feed.ErrUnreachable) {
		s.logger.Warn("feed read failed", "error", err)
		writeJSON(w, http.StatusOK, []incident.View{})
		return
	}

	s.logger.Warn("feed unreachable, falling back to store", "error", err)
	incidents, err = s.store.List(r.Context(), store.Query{Order: "created_at.desc"})
	if err != nil {
		s.logger.Warn("store fallback failed", "error", err)
		metrics.StoreRequestsTotal.WithLabelValues("list", "error").Inc()
		writeJSON(w, http.StatusOK, []incident.View{})
		return
	}
	metrics.StoreRequestsTotal.WithLabelValues("list", "ok").Inc()
	writeJSON(w, http.StatusOK, incident.ViewsOf(incidents, now))
}

// searchIncidents does a case-insensitive substring match across title,
// description and location, retrying title-only when the combined filter is
// rejected upstream.
func (s *Server) searchIncidents(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []incident.View{})
		return
	}
	now := time.Now().UTC()

	incidents, err := s.store.Search(r.Context(), q)
	if err != nil {
		s.logger.Warn("combined search failed, retrying title-only", "error", err)
		incidents, err = s.store.SearchTitle(r.Context(), q)
		if err != nil {
			s.logger.Warn("title search failed", "error", err)
			metrics.StoreRequestsTotal.WithLabelValues("search", "error").Inc()
			writeJSON(w, http.StatusOK, []incident.View{})
			return
		}
	}
	metrics.StoreRequestsTotal.WithLabelValues("search", "ok").Inc()
	writeJSON(w, http.StatusOK, incident.ViewsOf(incidents, now))
}

// liveUpdates derives recent status-change events from the most recently
// updated rows.
func (s *Server) liveUpdates(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.store.List(r.Context(), store.Query{Order: "updated_at.desc", Limit: 10})
	if err != nil {
		s.logger.Warn("live updates fetch failed", "error", err)
		writeJSON(w, http.StatusOK, []any{})
		return
	}

	updates := make([]map[string]any, 0, len(incidents))
	for _, in := range incidents {
		status := in.Status
		if status == "" {
			status = "open"
		}
		var updateType string
		switch {
		case status == "resolved":
			updateType = "resolved"
		case status == "investigating":
			updateType = "status_change"
		case in.CreatedAt == in.UpdatedAt:
			updateType = "new_incident"
		default:
			updateType = "status_change"
		}
		title := in.Title
		if title == "" {
			title = "Incident"
		}
		ts := in.UpdatedAt
		if ts == "" {
			ts = in.CreatedAt
		}
		updates = append(updates, map[string]any{
			"id":         "update-" + in.Key(),
			"type":       updateType,
			"incidentId": in.Key(),
			"message":    fmt.Sprintf("%s - %s", title, status),
			"timestamp":  ts,
		})
	}
	writeJSON(w, http.StatusOK, updates)
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if _, ok := incident.ValidSeverities[req.Severity]; !ok {
		writeError(w, http.StatusBadRequest, "invalid severity: "+req.Severity)
		return
	}
	if _, ok := incident.ValidStatuses[req.Status]; !ok {
		writeError(w, http.StatusBadRequest, "invalid status: "+req.Status)
		return
	}

	id, stamp := s.ids.next(time.Now().UTC())
	iso := stamp.Format(time.RFC3339)

	rec := incident.Incident{
		IncidentID:     id,
		Title:          req.Title,
		Description:    req.Description,
		Severity:       req.Severity,
		Status:         req.Status,
		Location:       req.Location,
		OrganizationID: defaultOrgID.String(),
		ReporterID:     defaultReporterID.String(),
		Timestamp:      iso,
		CreatedAt:      iso,
		UpdatedAt:      iso,
	}

	stored, err := s.store.Insert(r.Context(), rec)
	if err != nil {
		s.logger.Error("create incident failed", "incident_id", id, "error", err)
		metrics.StoreRequestsTotal.WithLabelValues("insert", "error").Inc()
		writeError(w, http.StatusBadGateway, "store write failed")
		return
	}
	metrics.StoreRequestsTotal.WithLabelValues("insert", "ok").Inc()

	s.announce(r.Context(), "created", map[string]any{
		"type":        "incident_created",
		"incident_id": id,
		"timestamp":   iso,
	})

	writeJSON(w, http.StatusCreated, incident.ViewOf(stored, stamp))
}

func (s *Server) updateIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	now := time.Now().UTC()
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Severity != nil {
		if _, ok := incident.ValidSeverities[*req.Severity]; !ok {
			writeError(w, http.StatusBadRequest, "invalid severity: "+*req.Severity)
			return
		}
		fields["severity"] = *req.Severity
	}
	if req.Status != nil {
		if _, ok := incident.ValidStatuses[*req.Status]; !ok {
			writeError(w, http.StatusBadRequest, "invalid status: "+*req.Status)
			return
		}
		fields["status"] = *req.Status
		if *req.Status == "resolved" {
			fields["resolved_at"] = now.Format(time.RFC3339)
		}
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.AssigneeID != nil {
		fields["assignee_id"] = *req.AssigneeID
	}
	fields["updated_at"] = now.Format(time.RFC3339)

	stored, err := s.store.Patch(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "incident not found: "+id)
			return
		}
		s.logger.Error("update incident failed", "incident_id", id, "error", err)
		metrics.StoreRequestsTotal.WithLabelValues("patch", "error").Inc()
		writeError(w, http.StatusBadGateway, "store write failed")
		return
	}
	metrics.StoreRequestsTotal.WithLabelValues("patch", "ok").Inc()

	changed := make([]string, 0, len(fields))
	for k := range fields {
		changed = append(changed, k)
	}
	s.announce(r.Context(), "updated", map[string]any{
		"type":        "incident_updated",
		"incident_id": id,
		"changes":     changed,
		"timestamp":   now.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, incident.ViewOf(stored, now))
}

// softDeleteIncident marks the row deleted; the row is never physically
// removed. DELETE on the collection item is an alias kept for older clients.
func (s *Server) softDeleteIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now := time.Now().UTC()

	fields := map[string]any{
		"deleted_at": now.Format(time.RFC3339),
		"updated_at": now.Format(time.RFC3339),
	}
	if _, err := s.store.Patch(r.Context(), id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "incident not found: "+id)
			return
		}
		s.logger.Error("soft delete failed", "incident_id", id, "error", err)
		metrics.StoreRequestsTotal.WithLabelValues("patch", "error").Inc()
		writeError(w, http.StatusBadGateway, "store write failed")
		return
	}
	metrics.StoreRequestsTotal.WithLabelValues("patch", "ok").Inc()

	s.announce(r.Context(), "deleted", map[string]any{
		"type":        "incident_deleted",
		"incident_id": id,
		"timestamp":   now.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "incident_id": id})
}

// announce pushes a change event to WebSocket clients and mirrors it to the
// event bus when one is configured.
func (s *Server) announce(ctx context.Context, verb string, event map[string]any) {
	s.registry.Broadcast(ctx, event)
	s.mirror.PublishChange(verb, event)
}
