package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
)

const (
	githubUserAgent   = "dev-connect"
	maxGitHubResponse = 2 << 20 // 2MB
)

// GitHubClient lists a user's most recently created public repositories.
type GitHubClient struct {
	baseURL string
	client  *http.Client
}

// NewGitHubClient creates a client against the given API base URL.
func NewGitHubClient(baseURL string, timeout time.Duration) *GitHubClient {
	return &GitHubClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Repos returns the upstream JSON body unchanged. Any non-200 upstream
// status is reported as domain.ErrNotFound.
func (c *GitHubClient) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.ErrNotFound
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", githubUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: github returned %d", domain.ErrNotFound, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGitHubResponse))
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("github returned malformed JSON")
	}
	return json.RawMessage(body), nil
}
