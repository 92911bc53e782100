// Package domain holds the burnout scoring model: the persisted score,
// the aggregated signal bundle, and the risk classifier.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies a burnout score into a discrete band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk classification thresholds. These are the single source of truth:
// every persisted score's risk level must be derivable from its score
// through ClassifyRisk.
const (
	HighRiskThreshold   = 70
	MediumRiskThreshold = 40
)

// ClassifyRisk maps a 0-100 score to its risk level.
func ClassifyRisk(score int) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskHigh
	case score >= MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Factors records the signal counts that went into a score. Fields only
// one computation path fills are omitted from JSON when zero.
type Factors struct {
	CommitsCount      int `json:"commitsCount"`
	OvertimeHours     int `json:"overtimeHours,omitempty"`
	TasksInProgress   int `json:"tasksInProgress"`
	CompletedTasks    int `json:"completedTasks"`
	OverdueTasks      int `json:"overdueTasks"`
	PullRequestsCount int `json:"pullRequestsCount"`
	AIChatCount       int `json:"aiChatCount,omitempty"`
	MissedDeadlines   int `json:"missedDeadlines,omitempty"`
}

// FallbackModel is the ModelUsed marker for scores produced by the
// deterministic path.
const FallbackModel = "fallback"

// BurnoutScore is a computed burnout estimate for a user, optionally
// scoped to a single project. Entries are immutable: a refresh appends
// a new entry rather than updating in place.
type BurnoutScore struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	ProjectID       *uuid.UUID `json:"projectId,omitempty"`
	Score           int        `json:"score"`
	RiskLevel       RiskLevel  `json:"riskLevel"`
	Week            int        `json:"week"`
	Year            int        `json:"year"`
	Factors         Factors    `json:"factors"`
	Analysis        string     `json:"analysis"`
	Recommendations []string   `json:"recommendations"`
	ModelUsed       string     `json:"modelUsed"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// IsFresh reports whether the entry was created within the freshness
// window ending at now.
func (s *BurnoutScore) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(s.CreatedAt) <= window
}
