package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/opsdeck/incident-intel/internal/chat"
	"github.com/opsdeck/incident-intel/internal/metrics"
	"github.com/opsdeck/incident-intel/internal/rag"
)

type chatRequest struct {
	Message string         `json:"message"`
	History []chat.Message `json:"history"`
}

type chatResponse struct {
	Response     string   `json:"response"`
	Timestamp    string   `json:"timestamp"`
	Mode         string   `json:"mode,omitempty"`
	DataSource   string   `json:"dataSource,omitempty"`
	ContextSize  int      `json:"contextSize,omitempty"`
	IncidentRefs []string `json:"incidentRefs,omitempty"`
}

const unreachableMessage = "Error: Cannot connect to the answer service. Is it running?"

// chat routes a message: small talk gets a canned reply, everything else is
// rewritten, wrapped in the prompt template and proxied to the answer service.
// Collaborator failures come back as user-facing text, never an error status.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if reply, ok := chat.DetectGreeting(req.Message); ok {
		metrics.ChatRequestsTotal.WithLabelValues("greeting").Inc()
		writeJSON(w, http.StatusOK, chatResponse{Response: reply, Timestamp: now})
		return
	}

	enhanced := chat.EnhanceQuery(req.Message)
	prompt := chat.BuildPrompt(enhanced, req.History)

	ans, err := s.rag.Ask(r.Context(), prompt)
	if err != nil {
		if errors.Is(err, rag.ErrUnreachable) {
			metrics.ChatRequestsTotal.WithLabelValues("unreachable").Inc()
			s.logger.Warn("answer service unreachable", "error", err)
			writeJSON(w, http.StatusOK, chatResponse{Response: unreachableMessage, Timestamp: now})
			return
		}
		metrics.ChatRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Error("answer request failed", "error", err)
		writeJSON(w, http.StatusOK, chatResponse{Response: "Error: " + err.Error(), Timestamp: now})
		return
	}
	metrics.ChatRequestsTotal.WithLabelValues("answered").Inc()

	refs, legacy := chat.ExtractRefs(ans.Response)
	if len(legacy) > 0 {
		// Stale cache or unmigrated rows upstream; never surfaced to the caller.
		s.logger.Warn("legacy identifiers in answer", "refs", legacy, "query", req.Message)
	}

	contextSize := len(refs)
	if contextSize == 0 {
		if ans.Sources != nil {
			// A present sources list is authoritative, even when empty.
			contextSize = len(*ans.Sources)
		} else {
			contextSize = chat.EstimateContext(ans.Response)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:     ans.Response,
		Timestamp:    now,
		Mode:         chat.DetectQueryMode(req.Message),
		DataSource:   "Supabase",
		ContextSize:  contextSize,
		IncidentRefs: refs,
	})
}
