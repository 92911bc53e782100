// Package domain holds the team/task tracking model consumed by the
// burnout engine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the task lifecycle state.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority represents a task's priority label.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task represents a unit of work assigned to a developer.
type Task struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID
	Title         string
	Description   string
	AssignedTo    *uuid.UUID
	CreatedBy     *uuid.UUID
	Status        TaskStatus
	Priority      TaskPriority
	EstimateHours float64
	RealHours     float64
	DueDate       *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDone reports whether the task has been completed.
func (t Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// IsOpen reports whether the task still counts toward the assignee's
// active workload.
func (t Task) IsOpen() bool {
	return t.Status == TaskStatusToDo || t.Status == TaskStatusInProgress
}

// IsOverdue reports whether the task's due date has passed without
// completion.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsDone()
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Assignee *uuid.UUID
	Project  *uuid.UUID
}
