package hypixel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	BaseURL = "https://api.hypixel.net/v2"
)

// APIError represents a Hypixel API error response
type APIError struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

// Client is a Hypixel API client with rate limiting
type Client struct {
	apiKey     string
	httpClient *http.Client

	// Simple rate limiter
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewClient creates a new Hypixel API client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// The key budget is 300 requests per 5 minutes; one request per
		// second keeps a full guild fetch comfortably under it.
		minInterval: time.Second,
	}
}

// doRequest performs an HTTP request with rate limiting
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	// Simple rate limiting
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.minInterval {
		time.Sleep(c.minInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	// Add API key header
	req.Header.Set("API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Handle rate limiting (429)
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		// Wait and retry once
		time.Sleep(5 * time.Second)
		return c.httpClient.Do(req)
	}

	return resp, nil
}

// getRaw performs a GET request and returns the raw response body. Snapshot
// payloads are persisted verbatim, so callers that archive the document use
// this instead of decoding into a struct.
func (c *Client) getRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp.StatusCode, body)
	}

	return body, nil
}

// parseError parses Hypixel API error responses
func (c *Client) parseError(statusCode int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Cause != "" {
		return fmt.Errorf("%s (HTTP %d)", apiErr.Cause, statusCode)
	}

	switch statusCode {
	case 400:
		return fmt.Errorf("bad request (HTTP 400): %s", string(body))
	case 403:
		return fmt.Errorf("invalid API key (HTTP 403)")
	case 422:
		return fmt.Errorf("malformed request field (HTTP 422)")
	case 429:
		return fmt.Errorf("API key throttled (HTTP 429)")
	case 503:
		return fmt.Errorf("API unavailable (HTTP 503)")
	default:
		return fmt.Errorf("API error: HTTP %d, body: %s", statusCode, string(body))
	}
}
