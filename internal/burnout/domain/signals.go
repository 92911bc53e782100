package domain

// SignalBundle is the aggregated raw input to score computation:
// version-control activity counts plus the task workload partition.
type SignalBundle struct {
	UserDisplayName      string
	CommitsCount         int
	RecentCommitMessages []string
	PullRequestsCount    int
	IssuesCount          int
	TasksInProgress      int
	CompletedTasks       int
	OverdueTasks         int
	TotalTasks           int
}
