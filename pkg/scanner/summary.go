package scanner

import (
	"sync"

	"github.com/google/uuid"

	"shaihulud/pkg/github"
)

// Summary aggregates the outcomes of one dispatcher run
type Summary struct {
	RunID        string   `json:"run_id"`
	Total        int      `json:"total"`
	Flagged      int      `json:"flagged"`
	Clean        int      `json:"clean"`
	Failed       int      `json:"failed"`
	FlaggedUsers []string `json:"flagged_users"`

	// Quota is the API quota last reported by GitHub, when known.
	Quota github.RateLimiterStats `json:"quota"`
}

// resultAggregator collects results from the pool
type resultAggregator struct {
	mu      sync.Mutex
	summary Summary
}

func newResultAggregator(runID string, expected int) *resultAggregator {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &resultAggregator{
		summary: Summary{
			RunID:        runID,
			FlaggedUsers: make([]string, 0, expected/10+1),
		},
	}
}

func (ra *resultAggregator) add(r Result) {
	ra.mu.Lock()
	defer ra.mu.Unlock()

	ra.summary.Total++
	switch r.Outcome.Status {
	case StatusFlagged:
		ra.summary.Flagged++
		ra.summary.FlaggedUsers = append(ra.summary.FlaggedUsers, r.Username)
	case StatusClean:
		ra.summary.Clean++
	default:
		ra.summary.Failed++
	}
}

func (ra *resultAggregator) result() Summary {
	ra.mu.Lock()
	defer ra.mu.Unlock()

	s := ra.summary
	s.FlaggedUsers = append([]string(nil), ra.summary.FlaggedUsers...)
	return s
}
