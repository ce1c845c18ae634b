package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: the job contract is defined here only
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression (with seconds)
	// Examples: "0 0 6 * * *" (every day at 6 AM)
	//           "@daily", "@every 30m"
	Schedule() string
}

// historySize is how many results are kept per job
const historySize = 100

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory stores the latest results of a job, oldest first
type JobHistory struct {
	Results []JobResult `json:"results"`
}

// AddResult appends a result, dropping the oldest beyond historySize
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historySize {
		h.Results = h.Results[len(h.Results)-historySize:]
	}
}

// GetLatestResults returns the latest n results
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// GetFailedResults returns all failed results
func (h *JobHistory) GetFailedResults() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// GetSuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	successCount := len(h.Results) - len(h.GetFailedResults())
	return float64(successCount) / float64(len(h.Results))
}

func (h *JobHistory) clone() *JobHistory {
	return &JobHistory{Results: append([]JobResult(nil), h.Results...)}
}
