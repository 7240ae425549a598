package github

import "context"

// APIClient defines the GitHub API operations the scanner depends on.
// Every method performs exactly one request and never retries.
type APIClient interface {
	// ListOrgMembers fetches one page of an organization's members
	ListOrgMembers(ctx context.Context, org string, page int) (*Page[Member], error)

	// ListUserRepos fetches one page of a user's public repositories
	ListUserRepos(ctx context.Context, username string, page int) (*Page[Repository], error)
}

var _ APIClient = (*Client)(nil)
