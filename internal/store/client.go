package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opsdeck/incident-intel/internal/incident"
)

// ErrNotFound is returned when a patch targets an identifier with no matching
// row. PostgREST reports this as an empty representation, not a 404.
var ErrNotFound = errors.New("incident not found")

// APIError is a non-2xx response from the store's REST interface.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("store api error %d: %s", e.Status, e.Body)
}

// Client talks to a hosted Postgres exposed over the PostgREST interface
// (Supabase). All writes and direct reads in the system go through here; the
// answer pipeline only ever sees the poller's artifacts.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Query bounds a list call. Order uses PostgREST syntax, e.g. "created_at.desc".
type Query struct {
	Order          string
	Limit          int
	IncludeDeleted bool
}

// List fetches incidents. Soft-deleted rows are excluded unless the query asks
// for them.
func (c *Client) List(ctx context.Context, q Query) ([]incident.Incident, error) {
	params := url.Values{}
	params.Set("select", "*")
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if !q.IncludeDeleted {
		params.Set("deleted_at", "is.null")
	}
	return c.list(ctx, params)
}

// Search matches q case-insensitively against title, description and location,
// newest first, bounded to 50 rows.
func (c *Client) Search(ctx context.Context, q string) ([]incident.Incident, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("deleted_at", "is.null")
	params.Set("or", fmt.Sprintf("(title.ilike.*%s*,description.ilike.*%s*,location.ilike.*%s*)", q, q, q))
	params.Set("order", "created_at.desc")
	params.Set("limit", "50")
	return c.list(ctx, params)
}

// SearchTitle is the narrower fallback used when the combined filter is
// rejected upstream.
func (c *Client) SearchTitle(ctx context.Context, q string) ([]incident.Incident, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("deleted_at", "is.null")
	params.Set("title", fmt.Sprintf("ilike.*%s*", q))
	params.Set("order", "created_at.desc")
	return c.list(ctx, params)
}

// Insert writes a new row and returns the stored representation.
func (c *Client) Insert(ctx context.Context, rec incident.Incident) (incident.Incident, error) {
	rows, err := c.do(ctx, http.MethodPost, "incidents", nil, rec)
	if err != nil {
		return incident.Incident{}, err
	}
	if len(rows) == 0 {
		return incident.Incident{}, fmt.Errorf("insert returned no representation")
	}
	return rows[0], nil
}

// Patch updates the row matching incidentID with the given fields. Only the
// provided fields are sent; an empty match yields ErrNotFound.
func (c *Client) Patch(ctx context.Context, incidentID string, fields map[string]any) (incident.Incident, error) {
	params := url.Values{}
	params.Set("incident_id", "eq."+incidentID)
	rows, err := c.do(ctx, http.MethodPatch, "incidents", params, fields)
	if err != nil {
		return incident.Incident{}, err
	}
	if len(rows) == 0 {
		return incident.Incident{}, fmt.Errorf("%w: %s", ErrNotFound, incidentID)
	}
	return rows[0], nil
}

// Ping probes the REST root, used by health checks. Uses a short deadline so a
// dead store cannot stall the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return &APIError{Status: resp.StatusCode, Body: "store unhealthy"}
	}
	return nil
}

func (c *Client) list(ctx context.Context, params url.Values) ([]incident.Incident, error) {
	return c.do(ctx, http.MethodGet, "incidents", params, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]incident.Incident, error) {
	u := c.baseURL + "/rest/v1/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if len(respBody) == 0 {
		return nil, nil
	}

	var rows []incident.Incident
	if err := json.Unmarshal(respBody, &rows); err != nil {
		// PostgREST returns a bare object for single-row representations.
		var row incident.Incident
		if err2 := json.Unmarshal(respBody, &row); err2 != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		rows = []incident.Incident{row}
	}
	return rows, nil
}
