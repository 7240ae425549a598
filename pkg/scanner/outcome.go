package scanner

import (
	"shaihulud/pkg/github"
)

// Status is the verdict for one scanned user
type Status string

const (
	StatusFlagged Status = "FLAG"
	StatusClean   Status = "OKAY"
	StatusFailed  Status = "ERROR"
)

// Outcome is the result of scanning one user. RepoURL is set only when
// flagged; Reason and ErrorType only when the scan failed.
type Outcome struct {
	Status    Status           `json:"status"`
	RepoURL   string           `json:"repo_url,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	ErrorType github.ErrorType `json:"error_type,omitempty"`
}

// Flagged returns the outcome for a user owning a repository that carries the indicator
func Flagged(repoURL string) Outcome {
	return Outcome{Status: StatusFlagged, RepoURL: repoURL}
}

// Clean returns the outcome for a user with no matching repository
func Clean() Outcome {
	return Outcome{Status: StatusClean}
}

// Failed returns the outcome for a scan that could not complete
func Failed(err error) Outcome {
	return Outcome{
		Status:    StatusFailed,
		Reason:    err.Error(),
		ErrorType: github.TypeOf(err),
	}
}

// Result pairs a username with its outcome as delivered by the Dispatcher
type Result struct {
	Username string  `json:"username"`
	Outcome  Outcome `json:"outcome"`
}
