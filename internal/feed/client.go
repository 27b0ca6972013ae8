package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/opsdeck/incident-intel/internal/incident"
)

// ErrUnreachable means the feed process is not accepting connections. The
// gateway falls back to a direct store query on this error and only this
// error; anything else degrades to an empty list.
var ErrUnreachable = errors.New("feed unreachable")

// Client is the gateway-side handle on the feed service.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Incidents fetches the cached incident list.
func (c *Client) Incidents(ctx context.Context) ([]incident.Incident, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/incidents", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed status %d: %s", resp.StatusCode, string(body))
	}

	var incidents []incident.Incident
	if err := json.Unmarshal(body, &incidents); err != nil {
		return nil, fmt.Errorf("unmarshal incidents: %w", err)
	}
	return incidents, nil
}

// Healthy probes the feed's health endpoint with a short deadline.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// classify separates refused/unresolvable connections from other transport
// failures. Timeouts are deliberately not ErrUnreachable: a slow feed should
// not trigger a second slow round-trip to the store.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("feed request: %w", err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
