// Package github is a minimal client for the two GitHub endpoints the
// deploy flow needs: repository_dispatch and the latest workflow run.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Client talks to the GitHub REST API v3 with a personal access token.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
}

// NewClient creates a GitHub client. If token is empty, it falls back to
// the GITHUB_TOKEN env var.
func NewClient(token string) *Client {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
		baseURL: "https://api.github.com",
	}
}

// Dispatch fires a repository_dispatch event so the site's Actions
// workflow can rebuild from the updated content.
func (c *Client) Dispatch(ctx context.Context, owner, repo, eventType string, payload any) error {
	body := struct {
		EventType     string `json:"event_type"`
		ClientPayload any    `json:"client_payload,omitempty"`
	}{EventType: eventType, ClientPayload: payload}

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("github: encode dispatch: %w", err)
	}

	u := fmt.Sprintf("%s/repos/%s/%s/dispatches", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github: dispatch: %w", err)
	}
	defer resp.Body.Close()
	// 204 on success.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError("dispatch", resp)
	}
	return nil
}

// WorkflowRun is the subset of a workflow run the status endpoint reports.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	Branch     string    `json:"head_branch"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	HTMLURL    string    `json:"html_url"`
}

type runsResponse struct {
	TotalCount int           `json:"total_count"`
	Runs       []WorkflowRun `json:"workflow_runs"`
}

// LatestRun returns the most recent run of the named workflow file, or
// nil when the workflow has never run.
func (c *Client) LatestRun(ctx context.Context, owner, repo, workflow string) (*WorkflowRun, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/runs?per_page=1",
		c.baseURL, owner, repo, url.PathEscape(workflow))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: latest run: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError("latest run", resp)
	}

	var out runsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("github: decode runs: %w", err)
	}
	if len(out.Runs) == 0 {
		return nil, nil
	}
	run := out.Runs[0]
	return &run, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
}

func apiError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("github: %s: unexpected status %s: %s", op, resp.Status, bytes.TrimSpace(snippet))
}
