// Package rag wraps the external answer service. The answering pipeline itself
// is an opaque collaborator; this client only ships a prompt and decodes the
// reply.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ErrUnreachable means the answer service is not accepting connections. The
// gateway turns this into a fixed user-facing message, never an error status.
var ErrUnreachable = errors.New("answer service unreachable")

type Client struct {
	answerURL string
	client    *http.Client
}

// NewClient builds a client for the answer endpoint. The timeout is generous
// to tolerate slow upstream inference.
func NewClient(answerURL string) *Client {
	return &Client{
		answerURL: answerURL,
		client:    &http.Client{Timeout: 120 * time.Second},
	}
}

type answerRequest struct {
	Prompt string `json:"prompt"`
}

// Answer is the decoded reply. Sources is optional metadata some pipeline
// versions attach; the pointer keeps an absent key distinguishable from an
// empty list, because a present list is authoritative for context size.
type Answer struct {
	Response string `json:"response"`
	Sources  *[]any `json:"sources"`
}

// Ask posts the prompt and returns the answer text.
func (c *Client) Ask(ctx context.Context, prompt string) (Answer, error) {
	body, err := json.Marshal(answerRequest{Prompt: prompt})
	if err != nil {
		return Answer{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.answerURL, bytes.NewReader(body))
	if err != nil {
		return Answer{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Answer{}, fmt.Errorf("answer request: %w", err)
		}
		return Answer{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Answer{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Answer{}, fmt.Errorf("answer service status %d: %s", resp.StatusCode, string(respBody))
	}

	var ans Answer
	if err := json.Unmarshal(respBody, &ans); err != nil {
		return Answer{}, fmt.Errorf("unmarshal answer: %w", err)
	}
	if ans.Response == "" {
		ans.Response = "No response from RAG"
	}
	return ans, nil
}

// Reachable probes the service root with a short deadline, for health checks.
func (c *Client) Reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	base := c.answerURL
	if u, err := url.Parse(c.answerURL); err == nil {
		u.Path = "/"
		base = u.String()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode < 500
}
