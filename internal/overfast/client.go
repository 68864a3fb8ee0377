// Package overfast is a small client for the OverFast Overwatch API.
package overfast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public OverFast deployment.
const DefaultBaseURL = "https://overfast-api.tekrop.fr"

const defaultTimeout = 30 * time.Second

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("overfast API error (%d): %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether err is an HTTP 429 from the API.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

// Client fetches hero, map and gamemode data.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Heroes lists all heroes.
func (c *Client) Heroes(ctx context.Context) ([]HeroSummary, error) {
	body, err := c.get(ctx, "/heroes")
	if err != nil {
		return nil, err
	}
	var heroes []HeroSummary
	if err := json.Unmarshal(body, &heroes); err != nil {
		return nil, fmt.Errorf("decoding heroes: %w", err)
	}
	return heroes, nil
}

// Hero fetches the details of one hero.
func (c *Client) Hero(ctx context.Context, key string) (*HeroDetail, error) {
	body, err := c.get(ctx, "/heroes/"+url.PathEscape(key))
	if err != nil {
		return nil, err
	}
	var hero HeroDetail
	if err := json.Unmarshal(body, &hero); err != nil {
		return nil, fmt.Errorf("decoding hero %s: %w", key, err)
	}
	hero.Raw = body
	return &hero, nil
}

// Maps lists all maps.
func (c *Client) Maps(ctx context.Context) ([]Map, error) {
	body, err := c.get(ctx, "/maps")
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decoding maps: %w", err)
	}
	maps := make([]Map, 0, len(raws))
	for _, raw := range raws {
		var m Map
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decoding map: %w", err)
		}
		m.Raw = raw
		maps = append(maps, m)
	}
	return maps, nil
}

// Gamemodes lists all gamemodes.
func (c *Client) Gamemodes(ctx context.Context) ([]Gamemode, error) {
	body, err := c.get(ctx, "/gamemodes")
	if err != nil {
		return nil, err
	}
	var modes []Gamemode
	if err := json.Unmarshal(body, &modes); err != nil {
		return nil, fmt.Errorf("decoding gamemodes: %w", err)
	}
	return modes, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
