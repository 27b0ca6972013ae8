package incident

import (
	"fmt"
	"regexp"
	"time"
)

// CanonicalIDPattern matches the current identifier scheme: INC-YYYYMMDD-HHMMSS.
var CanonicalIDPattern = regexp.MustCompile(`^INC-\d{8}-\d{6}$`)

// LegacyIDPattern matches pre-migration numeric identifiers (INC-101, INC-1102).
// Records carrying these must stay out of the RAG cache until migrated.
var LegacyIDPattern = regexp.MustCompile(`^INC-\d+$`)

// Validity sets for the two enum fields. Unknown values are passed through to the
// store unmodified; the gateway rejects them at the request boundary.
var ValidSeverities = map[string]struct{}{
	"low":      {},
	"medium":   {},
	"high":     {},
	"critical": {},
}

var ValidStatuses = map[string]struct{}{
	"open":          {},
	"investigating": {},
	"resolved":      {},
	"closed":        {},
}

// Incident is the wire record as stored in the incidents table. Every field is
// optional on the wire; ViewOf applies the default-fill rules.
type Incident struct {
	ID             string `json:"id,omitempty"`
	IncidentID     string `json:"incident_id,omitempty"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	Severity       string `json:"severity,omitempty"`
	Status         string `json:"status,omitempty"`
	Location       string `json:"location,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	ReporterID     string `json:"reporter_id,omitempty"`
	AssigneeID     string `json:"assignee_id,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
	ResolvedAt     string `json:"resolved_at,omitempty"`
	DeletedAt      string `json:"deleted_at,omitempty"`
}

// Key returns the identifier used for artifact naming and citation: the
// incident_id when present, falling back to the row id.
func (in Incident) Key() string {
	if in.IncidentID != "" {
		return in.IncidentID
	}
	if in.ID != "" {
		return in.ID
	}
	return "unknown"
}

// HasCanonicalID reports whether the record carries a migrated identifier.
func (in Incident) HasCanonicalID() bool {
	return CanonicalIDPattern.MatchString(in.Key())
}

// HasLegacyID reports whether the record carries a pre-migration numeric
// identifier. Canonical identifiers also start with INC-<digits>, so the
// canonical check must win.
func (in Incident) HasLegacyID() bool {
	key := in.Key()
	return LegacyIDPattern.MatchString(key) && !CanonicalIDPattern.MatchString(key)
}

// NewID builds a canonical identifier from wall-clock time. Two creates within
// the same second collide; the gateway guards the process-local case.
func NewID(t time.Time) string {
	return fmt.Sprintf("INC-%s-%s", t.Format("20060102"), t.Format("150405"))
}

// View is the client-facing shape returned by every read endpoint.
type View struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Status      string   `json:"status"`
	Location    string   `json:"location"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Timeline    []any    `json:"timeline"`
	AIInsights  []string `json:"aiInsights"`
}

// ViewOf maps a wire record to the client shape, filling gaps with the
// documented defaults. Missing timestamps fall back to the event timestamp and
// then to now, so the client never renders a zero time.
func ViewOf(in Incident, now time.Time) View {
	v := View{
		ID:          in.Key(),
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      in.Status,
		Location:    in.Location,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
		Timeline:    []any{},
		AIInsights:  []string{},
	}
	if v.Title == "" {
		v.Title = "Untitled"
	}
	if v.Severity == "" {
		v.Severity = "medium"
	}
	if v.Status == "" {
		v.Status = "open"
	}
	if v.Location == "" {
		v.Location = "Unknown"
	}
	if v.CreatedAt == "" {
		v.CreatedAt = in.Timestamp
	}
	if v.CreatedAt == "" {
		v.CreatedAt = now.Format(time.RFC3339)
	}
	if v.UpdatedAt == "" {
		v.UpdatedAt = in.Timestamp
	}
	if v.UpdatedAt == "" {
		v.UpdatedAt = now.Format(time.RFC3339)
	}
	return v
}

// ViewsOf maps a batch, preserving order.
func ViewsOf(ins []Incident, now time.Time) []View {
	views := make([]View, 0, len(ins))
	for _, in := range ins {
		views = append(views, ViewOf(in, now))
	}
	return views
}
