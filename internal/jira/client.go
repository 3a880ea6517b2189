// Package jira is a hand-written client for the Jira REST v2 API, covering
// the small surface this tool needs: issue search with changelog expansion,
// single-issue lookups, field discovery, and the authenticated-user probe.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is a high-level client for the Jira REST API.
type Client struct {
	baseURL    string
	cred       Credential
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a new Client for the given Jira instance. The credential is
// sent as a Basic authorization header on every request.
func New(baseURL string, cred Credential, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("jira: baseURL is required")
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		cred:       cred,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// doJSON executes an HTTP request and decodes the JSON response into dst.
// If the response has an error status, it returns an *APIError.
func (c *Client) doJSON(ctx context.Context, method, url, operation string, body io.Reader, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	if !c.cred.IsZero() {
		req.Header.Set("Authorization", "Basic "+c.cred.Encode())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "API request", "operation", operation, "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "API response", "operation", operation, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var errRS ErrorRS
		if json.Unmarshal(respBody, &errRS) == nil && len(errRS.ErrorMessages) > 0 {
			return newAPIError(operation, resp.StatusCode, strings.Join(errRS.ErrorMessages, "; "))
		}
		msg := strings.TrimSpace(string(respBody))
		if msg == "" {
			msg = resp.Status
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	if dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("%s: decode response: %w", operation, err)
		}
	}
	return nil
}

// Myself returns the authenticated user's profile, resolved from the
// credential. Uses GET /rest/api/2/myself.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	u := fmt.Sprintf("%s/rest/api/2/myself", c.baseURL)
	var user User
	if err := c.doJSON(ctx, "GET", u, "get myself", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Fields lists all field definitions, including custom fields. Used to
// discover the instance-specific ids of the sprint, epic link, epic name
// and story point fields. Uses GET /rest/api/2/field (array response).
func (c *Client) Fields(ctx context.Context) ([]Field, error) {
	u := fmt.Sprintf("%s/rest/api/2/field", c.baseURL)
	var fields []Field
	if err := c.doJSON(ctx, "GET", u, "list fields", nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
