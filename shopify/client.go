// Package shopify provides a minimal client for the Shopify Admin GraphQL API.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultAPIVersion is the Admin API version used when none is configured
const DefaultAPIVersion = "2025-01"

// Client executes GraphQL operations against a single Shopify store
type Client struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
// The client is expected to carry authentication (see internal.HeaderTransport).
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger for diagnostic output
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithEndpoint overrides the derived GraphQL endpoint URL
func WithEndpoint(url string) ClientOption {
	return func(c *Client) {
		c.endpoint = url
	}
}

// NewClient creates a client for the given store domain and API version
func NewClient(storeDomain, apiVersion string, opts ...ClientOption) (*Client, error) {
	if storeDomain == "" {
		return nil, fmt.Errorf("store domain is required")
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	domain := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(storeDomain, "https://"), "http://"), "/")

	c := &Client{
		endpoint: fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, apiVersion),
		client:   http.DefaultClient,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// graphqlRequest is the wire shape of a GraphQL POST body
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlResponse is the wire shape of a GraphQL response envelope
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// Execute runs a single GraphQL operation and returns the raw data payload.
// Top-level GraphQL errors are returned as an error; userErrors inside a
// mutation payload are part of the data and left to the caller.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("executing GraphQL operation", "endpoint", c.endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling Shopify API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Shopify API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			messages[i] = e.Message
		}
		return nil, fmt.Errorf("GraphQL errors: %s", strings.Join(messages, "; "))
	}

	return envelope.Data, nil
}

// escapeSearchTerm escapes a user-supplied value for use inside a quoted
// Shopify search query term. The query string itself is always passed to the
// API as a GraphQL variable, never interpolated into the document.
func escapeSearchTerm(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return value
}
