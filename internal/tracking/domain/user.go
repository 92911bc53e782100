package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a team member's identity as far as the burnout engine cares:
// a display name plus the GitHub identity used for activity sync.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Role           string
	GithubUsername string
	GithubToken    string
	CreatedAt      time.Time
}
