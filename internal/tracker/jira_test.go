package tracker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{BaseURL: srv.URL + "/", Email: "me@example.com", Token: "secret"},
		WithRetries(3, 0),
		WithRateLimit(0, 0),
	)
	require.NoError(t, err)
	return client
}

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(Config{BaseURL: "not a url", Token: "x"})
	require.Error(t, err)
}

func TestMyIssuesSendsJQLAndAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/2/search", r.URL.Path)
		require.Equal(t, DefaultJQL, r.URL.Query().Get("jql"))
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "me@example.com", user)
		require.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issues":[
			{"id":"1","key":"OPS-1","fields":{"summary":"Rotate keys","status":{"name":"To Do"}}},
			{"id":"2","key":"OPS-2","fields":{"summary":"Patch hosts"}}
		]}`))
	})

	issues, err := client.MyIssues(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Issue{
		{ID: "1", Key: "OPS-1", Summary: "Rotate keys", Status: "To Do"},
		{ID: "2", Key: "OPS-2", Summary: "Patch hosts"},
	}, issues)
}

func TestIssueDetailParsesFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/api/2/issue/OPS-7", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"7","key":"OPS-7","fields":{
			"summary":"Renew cert","description":"expires friday",
			"status":{"name":"In Progress"},"assignee":{"displayName":"Sam"},
			"updated":"2026-03-04T10:11:12.000+0000"}}`))
	})

	detail, err := client.IssueDetail(context.Background(), "OPS-7")
	require.NoError(t, err)
	require.Equal(t, "OPS-7", detail.Key)
	require.Equal(t, "Renew cert", detail.Summary)
	require.Equal(t, "In Progress", detail.Status)
	require.Equal(t, "expires friday", detail.Description)
	require.Equal(t, "Sam", detail.Assignee)
	require.Equal(t, 2026, detail.Updated.Year())
}

func TestIssueDetailNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessages":["Issue does not exist"]}`))
	})

	_, err := client.IssueDetail(context.Background(), "OPS-404")
	require.ErrorIs(t, err, ErrIssueNotFound)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"issues":[]}`))
	})

	issues, err := client.MyIssues(context.Background())
	require.NoError(t, err)
	require.Empty(t, issues)
	require.EqualValues(t, 3, calls.Load())
}

func TestRateLimitedAfterRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.MyIssues(context.Background())
	require.ErrorIs(t, err, ErrRateLimited)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	require.EqualValues(t, 3, calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.MyIssues(context.Background())
	require.ErrorIs(t, err, ErrAuthFailed)
	require.EqualValues(t, 1, calls.Load())
}

func TestDisabledTracker(t *testing.T) {
	_, err := Disabled{}.MyIssues(context.Background())
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = Disabled{}.IssueDetail(context.Background(), "X-1")
	require.ErrorIs(t, err, ErrNotConfigured)
}
