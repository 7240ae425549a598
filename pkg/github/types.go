package github

import "github.com/google/go-github/v66/github"

// Repository is the part of a GitHub repository the scanner looks at
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	// Description is empty when GitHub returns null or omits the field.
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
}

// Member represents an organization member
type Member struct {
	// Login is empty when the API entry has no login; such members are skipped.
	Login string `json:"login"`
}

// Page is one page of a paginated list endpoint
type Page[T any] struct {
	Items []T `json:"items"`
	// HasMore is true when the response carried a rel="next" link.
	HasMore bool `json:"has_more"`
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func convertGitHubRepository(repo *github.Repository) Repository {
	return Repository{
		Name:        repo.GetName(),
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		HTMLURL:     repo.GetHTMLURL(),
	}
}

// convertGitHubMember converts a GitHub API user to a Member
func convertGitHubMember(user *github.User) Member {
	return Member{Login: user.GetLogin()}
}

// hasNextPage reports whether the Link header announced a next page.
func hasNextPage(resp *github.Response) bool {
	if resp == nil {
		return false
	}
	return resp.NextPage != 0 || resp.NextPageToken != "" || resp.After != ""
}
