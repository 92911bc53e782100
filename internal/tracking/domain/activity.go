package domain

import (
	"time"

	"github.com/google/uuid"
)

// Commit is a single GitHub commit authored by a tracked user.
type Commit struct {
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	SHA     string    `json:"sha"`
	Author  string    `json:"author"`
}

// PullRequest is a GitHub pull request opened by a tracked user.
type PullRequest struct {
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	State    string     `json:"state"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

// Issue is a GitHub issue involving a tracked user.
type Issue struct {
	Title string `json:"title"`
	State string `json:"state"`
}

// ActivitySnapshot is the per-user, per-project GitHub activity record
// written by the sync collaborator and read by the burnout engine.
// Commits are stored most-recent-first; the engine samples a bounded
// prefix for analysis.
type ActivitySnapshot struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	ProjectID    uuid.UUID
	Commits      []Commit
	PullRequests []PullRequest
	Issues       []Issue
	LastSynced   time.Time
}
