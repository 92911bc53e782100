package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project groups tasks and links the team to a GitHub repository.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	GithubLink  string
	MemberIDs   []uuid.UUID
	CreatedAt   time.Time
}
