package tracker

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

	"github.com/atomicstack/simple-todo/internal/logging/events"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout    = 15 * time.Second
	DefaultMaxRetries = 3
	DefaultJQL        = "assignee = currentUser() AND resolution = Unresolved ORDER BY updated DESC"

	defaultRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 5 * time.Second
	maxResponseSize   = 4 * 1024 * 1024
	maxResults        = 100

	jiraTimeLayout = "2006-01-02T15:04:05.000-0700"
)

// Config holds the Jira connection settings.
type Config struct {
	BaseURL string
	Email   string
	Token   string
	JQL     string
}

// Configured reports whether enough settings are present to build a client.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.BaseURL) != "" && strings.TrimSpace(c.Token) != ""
}

// Client is a Jira REST v2 client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	email      string
	token      string
	jql        string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRetries sets the attempt budget and the base backoff delay.
func WithRetries(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		if maxRetries < 1 {
			maxRetries = 1
		}
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

// New builds a client for cfg. It returns ErrNotConfigured when cfg lacks a
// base URL or token.
func New(cfg Config, opts ...Option) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid tracker url %q: %w", cfg.BaseURL, err)
	}
	jql := strings.TrimSpace(cfg.JQL)
	if jql == "" {
		jql = DefaultJQL
	}
	c := &Client{
		baseURL:    base,
		email:      strings.TrimSpace(cfg.Email),
		token:      strings.TrimSpace(cfg.Token),
		jql:        jql,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		maxRetries: DefaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary     string `json:"summary"`
		Description string `json:"description"`
		Updated     string `json:"updated"`
		Status      *struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

func (i jiraIssue) status() string {
	if i.Fields.Status == nil {
		return ""
	}
	return i.Fields.Status.Name
}

type searchResponse struct {
	Issues []jiraIssue `json:"issues"`
}

type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// MyIssues implements Tracker.
func (c *Client) MyIssues(ctx context.Context) ([]Issue, error) {
	q := url.Values{}
	q.Set("jql", c.jql)
	q.Set("fields", "summary,status")
	q.Set("maxResults", fmt.Sprint(maxResults))
	var resp searchResponse
	if err := c.get(ctx, "/rest/api/2/search", q, &resp); err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(resp.Issues))
	for _, raw := range resp.Issues {
		issues = append(issues, Issue{
			ID:      raw.ID,
			Key:     raw.Key,
			Summary: raw.Fields.Summary,
			Status:  raw.status(),
		})
	}
	return issues, nil
}

// IssueDetail implements Tracker.
func (c *Client) IssueDetail(ctx context.Context, key string) (IssueDetail, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return IssueDetail{}, fmt.Errorf("%w: empty key", ErrIssueNotFound)
	}
	q := url.Values{}
	q.Set("fields", "summary,status,description,assignee,updated")
	var raw jiraIssue
	if err := c.get(ctx, "/rest/api/2/issue/"+url.PathEscape(key), q, &raw); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return IssueDetail{}, fmt.Errorf("%w: %s", ErrIssueNotFound, key)
		}
		return IssueDetail{}, err
	}
	detail := IssueDetail{
		Key:         raw.Key,
		Summary:     raw.Fields.Summary,
		Status:      raw.status(),
		Description: raw.Fields.Description,
	}
	if raw.Fields.Assignee != nil {
		detail.Assignee = raw.Fields.Assignee.DisplayName
	}
	if raw.Fields.Updated != "" {
		if ts, err := time.Parse(jiraTimeLayout, raw.Fields.Updated); err == nil {
			detail.Updated = ts
		}
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, c.backoff(attempt-1)); err != nil {
				return err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		retry, err := c.do(ctx, endpoint, path, attempt, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

// do performs one attempt and reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, endpoint, path string, attempt int, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.email != "" {
		req.SetBasicAuth(c.email, c.token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	events.Tracker.Request(req.Method, path, attempt)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("tracker request %s: %w", path, err)
	}
	defer resp.Body.Close()
	events.Tracker.Response(path, resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return true, fmt.Errorf("read tracker response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: %w", ErrAuthFailed, decodeAPIError(resp.StatusCode, body))
	case resp.StatusCode == http.StatusTooManyRequests:
		return true, fmt.Errorf("%w: %w", ErrRateLimited, decodeAPIError(resp.StatusCode, body))
	case resp.StatusCode >= 500:
		return true, decodeAPIError(resp.StatusCode, body)
	case resp.StatusCode >= 400:
		return false, decodeAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode tracker response: %w", err)
	}
	return false, nil
}

func (c *Client) backoff(retry int) time.Duration {
	delay := c.retryDelay << (retry - 1)
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	if c.retryDelay == 0 {
		return 0
	}
	return delay
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Messages = append(apiErr.Messages, parsed.ErrorMessages...)
		for field, msg := range parsed.Errors {
			apiErr.Messages = append(apiErr.Messages, field+": "+msg)
		}
	}
	return apiErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
