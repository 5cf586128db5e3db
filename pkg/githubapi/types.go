package githubapi

import "time"

// RepositorySummary is a read-only view of a repository.
type RepositorySummary struct {
	Name          string
	FullName      string
	Description   *string
	Private       bool
	Language      *string
	Stars         int
	Forks         int
	OpenIssues    int
	DefaultBranch string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	HTMLURL       string
}

// PullRequest is a read-only view of a pull request.
type PullRequest struct {
	Number       int
	Title        string
	Author       string
	State        string
	Draft        bool
	BaseRef      string
	HeadRef      string
	Body         *string
	Commits      int
	Comments     int
	Additions    int
	Deletions    int
	ChangedFiles int
	CreatedAt    time.Time
	HTMLURL      string
}

// FileChange is one file touched by a pull request.
type FileChange struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
}

// Review is a submitted pull request review.
type Review struct {
	Reviewer string
	State    string
}

// Issue is a read-only view of an issue listing entry.
// IsPullRequest reports whether the entry carries a pull request backlink.
type Issue struct {
	Number        int
	Title         string
	Author        string
	State         string
	Labels        []string
	Body          *string
	Comments      int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	HTMLURL       string
	IsPullRequest bool
}

// CommitSummary is one entry of a commit log.
type CommitSummary struct {
	SHA        string
	Message    string
	AuthorName string
	AuthorDate time.Time
}

// CreatedIssue is the part of a create-issue response the server reports.
type CreatedIssue struct {
	Number  int
	Title   string
	HTMLURL string
}

// CreatedComment is the part of a create-comment response the server reports.
type CreatedComment struct {
	ID      int64
	HTMLURL string
}

// ListRepositoriesOptions mirrors the query of GET /users/{username}/repos.
type ListRepositoriesOptions struct {
	Type    string
	Sort    string
	PerPage int
}

// ListIssuesOptions mirrors the query of GET /repos/{owner}/{repo}/issues.
type ListIssuesOptions struct {
	State   string
	Labels  []string
	PerPage int
}

// NewIssue is the request body of POST /repos/{owner}/{repo}/issues.
type NewIssue struct {
	Title  string
	Body   *string
	Labels []string
}
