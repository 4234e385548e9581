// Package tracker talks to the external issue tracker (Jira) that local
// tasks can be linked to.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotConfigured = errors.New("issue tracker not configured")
	ErrIssueNotFound = errors.New("issue not found")
	ErrAuthFailed    = errors.New("issue tracker authentication failed")
	ErrRateLimited   = errors.New("issue tracker rate limited")
)

// Issue is a row in the "my issues" list.
type Issue struct {
	ID      string
	Key     string
	Summary string
	Status  string
}

// IssueDetail is the full view of a single issue.
type IssueDetail struct {
	Key         string
	Summary     string
	Status      string
	Description string
	Assignee    string
	Updated     time.Time
}

// Tracker is the subset of tracker operations the application needs.
type Tracker interface {
	// MyIssues lists unresolved issues assigned to the authenticated user.
	MyIssues(ctx context.Context) ([]Issue, error)
	// IssueDetail loads one issue. Missing issues yield ErrIssueNotFound.
	IssueDetail(ctx context.Context, key string) (IssueDetail, error)
}

// APIError is a non-success HTTP response from the tracker.
type APIError struct {
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("tracker error (HTTP %d): %s", e.Status, e.Messages[0])
	}
	return fmt.Sprintf("tracker error (HTTP %d)", e.Status)
}

// Disabled is used when no tracker is configured.
type Disabled struct{}

func (Disabled) MyIssues(context.Context) ([]Issue, error) {
	return nil, ErrNotConfigured
}

func (Disabled) IssueDetail(context.Context, string) (IssueDetail, error) {
	return IssueDetail{}, ErrNotConfigured
}
