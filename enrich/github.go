// Package enrich looks up public data that decorates a profile.
package enrich

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

	"github.com/doyensec/safeurl"
)

// ErrNotFound indicates the upstream had nothing for the username. It is
// never fatal to the caller.
var ErrNotFound = errors.New("github profile not found")

// Defaults for the GitHub client.
const (
	DefaultGitHubURL = "https://api.github.com"
	DefaultUserAgent = "devconnector"
	DefaultTimeout   = 10 * time.Second

	maxResponseBytes = 1 << 20
)

// GitHubConfig configures the GitHub repository lookup.
type GitHubConfig struct {
	// BaseURL is the API root. Defaults to DefaultGitHubURL.
	BaseURL string

	// ClientID and ClientSecret authenticate the app when both are set,
	// raising the rate limit.
	ClientID     string
	ClientSecret string

	// UserAgent is sent on every request. GitHub rejects requests without one.
	UserAgent string

	// Timeout bounds each lookup when the default client is used.
	Timeout time.Duration

	// Client overrides the SSRF-guarded default client.
	Client *http.Client
}

// GitHub lists a user's public repositories.
type GitHub struct {
	baseURL      string
	clientID     string
	clientSecret string
	userAgent    string
	client       *http.Client
}

// NewGitHub creates a GitHub client. Without an explicit client the
// requests go through safeurl, which only dials public https endpoints.
func NewGitHub(cfg GitHubConfig) *GitHub {
	g := &GitHub{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		userAgent:    cfg.UserAgent,
		client:       cfg.Client,
	}
	if g.baseURL == "" {
		g.baseURL = DefaultGitHubURL
	}
	if g.userAgent == "" {
		g.userAgent = DefaultUserAgent
	}
	if g.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		g.client = NewSafeClient(timeout)
	}
	return g
}

// NewSafeClient returns an HTTP client that refuses private, loopback and
// link-local destinations and anything but https on 443.
func NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	return safeurl.Client(config).Client
}

// Repos returns the five oldest-created public repositories of username as
// the raw JSON array GitHub sent. Any non-2xx answer is ErrNotFound.
func (g *GitHub) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "asc")
	endpoint := g.baseURL + "/users/" + url.PathEscape(username) + "/repos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.clientID != "" && g.clientSecret != "" {
		req.SetBasicAuth(g.clientID, g.clientSecret)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: request repos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("github: read repos: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("github: response is not JSON")
	}
	return json.RawMessage(body), nil
}
