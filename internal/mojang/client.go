// Package mojang resolves Minecraft usernames to profile UUIDs via the
// Mojang API, with a short-lived in-process cache in front of the network.
package mojang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	BaseURL = "https://api.mojang.com"
)

// Profile is a resolved Minecraft account.
type Profile struct {
	UUID     string `json:"id"`
	Username string `json:"name"`
}

// Client is a Mojang API client with response caching.
type Client struct {
	httpClient   *http.Client
	profileCache *expiringCache[string, *Profile]
}

// NewClient creates a new Mojang API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		profileCache: newExpiringCache[string, *Profile](10 * time.Minute),
	}
}

// GetProfile resolves a username to its profile. Lookups are
// case-insensitive and cached for ten minutes. An unknown username returns
// (nil, nil) so callers can distinguish "not found" from request failure.
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	return c.profileCache.getOrFetch(strings.ToLower(username), func() (*Profile, error) {
		return c.fetchProfile(ctx, username)
	})
}

func (c *Client) fetchProfile(ctx context.Context, username string) (*Profile, error) {
	url := fmt.Sprintf("%s/users/profiles/minecraft/%s", BaseURL, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &profile, nil
}
