// Package agentclient talks to the agent query endpoint of the backend.
package agentclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	QueryPath      = "/api/agent/query"

	maxResponseBytes = 1 << 20
)

// RemoteError is returned when the service answers with a non-success status
// or a body that cannot be decoded.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("API %d: %s", e.StatusCode, e.Body)
}

// NetworkError wraps a transport failure; no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type QueryRequest struct {
	Prompt string `json:"prompt"`
}

type QueryResponse struct {
	Reply string `json:"reply"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithTimeout bounds a whole query round trip. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		clone := *client.httpClient
		clone.Timeout = d
		client.httpClient = &clone
	}
}

// New returns a client for the service at baseURL. Trailing slashes are
// trimmed; an empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query sends one prompt and returns the reply. It makes a single attempt.
func (c *Client) Query(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(QueryRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+QueryPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &NetworkError{Err: err}
	}

	log.Ctx(ctx).Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Agent query completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed QueryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &RemoteError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("invalid response body: %v", err)}
	}
	return parsed.Reply, nil
}
