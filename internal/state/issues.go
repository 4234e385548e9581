package state

import "github.com/atomicstack/simple-todo/internal/tracker"

// IssueStore holds the most recent "my issues" result.
type IssueStore interface {
	Entries() []tracker.Issue
	SetEntries([]tracker.Issue)
	Err() error
	SetErr(error)
	Loaded() bool
}

type issueStore struct {
	entries []tracker.Issue
	err     error
	loaded  bool
}

func NewIssueStore() IssueStore {
	return &issueStore{}
}

func (s *issueStore) Entries() []tracker.Issue {
	if len(s.entries) == 0 {
		return nil
	}
	dup := make([]tracker.Issue, len(s.entries))
	copy(dup, s.entries)
	return dup
}

func (s *issueStore) SetEntries(entries []tracker.Issue) {
	s.entries = make([]tracker.Issue, len(entries))
	copy(s.entries, entries)
	s.err = nil
	s.loaded = true
}

func (s *issueStore) Err() error {
	return s.err
}

// SetErr records a failed load. Previously loaded entries stay visible.
func (s *issueStore) SetErr(err error) {
	s.err = err
	s.loaded = true
}

func (s *issueStore) Loaded() bool {
	return s.loaded
}
