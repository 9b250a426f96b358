package zest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// pullRequest is the JSON body of POST /v1/pull.
type pullRequest struct {
	// Repo is the repo identifier, e.g. "meta-llama/Llama-3.1-8B".
	Repo string `json:"repo"`

	// Revision is the git revision to pull.
	Revision string `json:"revision"`
}

// controlClient handles HTTP communication with the daemon's local API.
//
// Pull uses HTTP as its single transport: the daemon's /v1/pull endpoint
// performs the blocking transfer and reports the snapshot path in its
// response, so no subprocess invocation or cache-directory scan is needed
// on the happy path.
type controlClient struct {
	// baseURL is the daemon's API base, e.g. "http://127.0.0.1:9847".
	baseURL string

	// httpClient is used for all requests. Per-request deadlines are
	// applied via context, so a client without its own timeout is fine.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger

	// pullTimeout bounds a single pull request.
	pullTimeout time.Duration
}

// newControlClient creates a client for the daemon API at baseURL.
func newControlClient(baseURL string, httpClient HTTPClient, logger Logger) *controlClient {
	return &controlClient{
		baseURL:     baseURL,
		httpClient:  httpClient,
		logger:      logger,
		pullTimeout: DefaultPullTimeout,
	}
}

// pull requests a download of repo at revision and returns the local
// snapshot path from the daemon's response. A response without a "path"
// field yields an empty string, not an error. The optional progressFn is
// invoked with the full decoded payload.
func (c *controlClient) pull(ctx context.Context, repo, revision string, progressFn func(map[string]any)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pullTimeout)
	defer cancel()

	body, err := json.Marshal(pullRequest{Repo: repo, Revision: revision})
	if err != nil {
		return "", fmt.Errorf("encoding pull request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pull", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating pull request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.logger != nil {
		c.logger.Debug("pulling", "repo", repo, "revision", revision)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pull %s: %w: %v", repo, ErrConnectionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("pull %s: status %d: %w", repo, resp.StatusCode, ErrDownloadFailed)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("parsing pull response: %w", ErrServerError)
	}

	if progressFn != nil {
		progressFn(payload)
	}

	path, _ := payload["path"].(string)
	return path, nil
}

// status fetches GET /v1/status and returns the decoded JSON object
// unmodified. The contents are daemon-defined and never interpreted here.
func (c *controlClient) status(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/status", nil)
	if err != nil {
		return nil, fmt.Errorf("creating status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching status: %w: %v", ErrConnectionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching status: status %d: %w", resp.StatusCode, ErrServerError)
	}

	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("parsing status: %w", ErrServerError)
	}

	return status, nil
}

// stopRequest posts a best-effort shutdown request. Transport failures are
// reported as ErrConnectionUnavailable; the caller decides whether to
// swallow them (the daemon may already be gone).
func (c *controlClient) stopRequest(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/stop", nil)
	if err != nil {
		return fmt.Errorf("creating stop request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("stop request: %w: %v", ErrConnectionUnavailable, err)
	}
	resp.Body.Close()

	return nil
}

// health performs a single probe of GET /v1/health. HTTP 200 means healthy;
// any transport error or non-200 status means unhealthy. The probe never
// retries; retrying belongs to the startup poll loop.
func (c *controlClient) health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
