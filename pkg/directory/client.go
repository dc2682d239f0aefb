// Package directory provides an HTTP client for the external directory
// service used to resolve dynamic group memberships.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds directory client configuration.
type Config struct {
	// BaseURL is the directory service endpoint, e.g. "https://dir.internal".
	// Empty disables dynamic group resolution.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`

	// Token is an optional bearer token sent with every request.
	Token string `mapstructure:"token" yaml:"token"`

	// Timeout bounds each lookup. Group resolution sits on the hot path of
	// every access check, so this should stay small.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
}

// Enabled reports whether a directory service is configured.
func (c *Config) Enabled() bool {
	return c.BaseURL != ""
}

// Client queries the directory service over HTTP. It satisfies the
// acl.Directory interface.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a directory client from configuration.
func New(cfg Config) *Client {
	cfg.ApplyDefaults()
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// groupMembership is a single membership record returned by the service.
type groupMembership struct {
	GroupID string `json:"group_id"`
}

// GroupsForEmail fetches the group ids the given email belongs to.
//
// A 404 means the directory does not know the user and yields an empty
// result with no error. Any other failure is returned to the caller, which
// is expected to degrade rather than fail the request.
func (c *Client) GroupsForEmail(ctx context.Context, email string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/groups", c.baseURL, url.PathEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory response: %w", err)
	}

	var memberships []groupMembership
	if err := json.Unmarshal(body, &memberships); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}

	groups := make([]string, 0, len(memberships))
	for _, m := range memberships {
		if m.GroupID != "" {
			groups = append(groups, m.GroupID)
		}
	}
	return groups, nil
}
