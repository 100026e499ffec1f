// Package github fetches repository metadata from the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Repository is the subset of repository metadata the analyze flow needs.
type Repository struct {
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
	Private       bool   `json:"private"`
}

// Client calls the GitHub REST API.
type Client struct {
	client *resty.Client
}

// NewClient creates a GitHub client. baseURL defaults to the public API
// when empty; token is optional and raises the rate limit when present.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/vnd.github+json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}

	return &Client{client: c}
}

// GetRepository fetches metadata for "owner/name".
func (c *Client) GetRepository(ctx context.Context, fullName string) (*Repository, error) {
	if fullName == "" {
		return nil, fmt.Errorf("repository full name is required")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		Get("/repos/" + fullName)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("repository %s not found", fullName)
	default:
		return nil, fmt.Errorf("github status %d: %s", resp.StatusCode(), resp.String())
	}

	var repo Repository
	if err := json.Unmarshal(resp.Body(), &repo); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &repo, nil
}
