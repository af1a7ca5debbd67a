// Package api is the HTTP client for the dream backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oneirolab/reverie/internal/dream"
)

// DefaultBaseURL is the local-development fallback used when no server
// address is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds every request; callers that need a shorter bound
// pass a context deadline.
const DefaultTimeout = 15 * time.Second

// ErrDreamNotFound is returned when the backend reports 404 for a dream ID.
// Callers surface it as a distinct condition from transport failures.
var ErrDreamNotFound = errors.New("dream not found")

// StatusError is a non-success HTTP status from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code %d", e.Code)
	}
	return fmt.Sprintf("unexpected status code %d: %s", e.Code, e.Body)
}

// Client talks to the dream backend REST API. It performs no retries and no
// caching; every caller owns its failure path.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given base URL. An empty baseURL falls
// back to DefaultBaseURL; a zero timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins the base URL and an endpoint path with exactly one separating
// slash, regardless of whether either side carries one.
func (c *Client) URL(endpoint string) string {
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// DreamURL returns the shareable address of a single dream view.
func (c *Client) DreamURL(dreamID string) string {
	return c.URL("/v1/dream/" + dreamID)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrDreamNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// NewConcepts fetches two freshly generated seed concepts. Nothing is
// persisted server-side by this call.
func (c *Client) NewConcepts(ctx context.Context) ([]string, error) {
	var resp newConceptsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/dream/new", nil, &resp); err != nil {
		return nil, err
	}
	contents := make([]string, len(resp.Concepts))
	for i, g := range resp.Concepts {
		contents[i] = g.Content
	}
	return contents, nil
}

// StartDream creates a dream from two seed concepts and returns its ID.
func (c *Client) StartDream(ctx context.Context, concept1, concept2 string) (string, error) {
	req := startDreamRequest{Concept1: concept1, Concept2: concept2}
	var resp startDreamResponse
	if err := c.do(ctx, http.MethodPost, "/v1/dream/start", req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", errors.New("backend reported failure starting dream")
	}
	return resp.DreamID, nil
}

// GetDream fetches a dream's metadata and full concept history.
// Returns ErrDreamNotFound when the ID does not exist.
func (c *Client) GetDream(ctx context.Context, dreamID string) (dream.Dream, error) {
	var resp getDreamResponse
	if err := c.do(ctx, http.MethodGet, "/v1/dream/"+dreamID, nil, &resp); err != nil {
		return dream.Dream{}, err
	}
	d := resp.Dream
	d.Concepts = resp.Concepts
	return d, nil
}

// ContinueDream asks the backend to sample two concepts from the dream and
// append one combined concept. The caller re-fetches the dream on success;
// the response carries no concept data.
func (c *Client) ContinueDream(ctx context.Context, dreamID string) error {
	var resp continueDreamResponse
	if err := c.do(ctx, http.MethodPost, "/v1/dream/"+dreamID+"/continue", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return errors.New("backend reported failure continuing dream")
	}
	return nil
}

// DreamPage is one page of dream summaries plus pagination info.
type DreamPage struct {
	Dreams     []dream.Summary `json:"dreams"`
	HasMore    bool            `json:"has_more"`
	TotalCount int             `json:"total_count"`
}

// ListDreams fetches up to limit summaries starting at offset, newest first.
func (c *Client) ListDreams(ctx context.Context, offset, limit int) (DreamPage, error) {
	endpoint := fmt.Sprintf("/v1/dream/list?offset=%d&limit=%d", offset, limit)
	var page DreamPage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return DreamPage{}, err
	}
	return page, nil
}

// Health is the backend health report.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message"`
}

// GetHealth checks backend health, including its database connectivity.
func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return Health{}, err
	}
	return h, nil
}
