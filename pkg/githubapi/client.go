// Package githubapi provides a typed GitHub API client powered by go-github.
//
// Responses are converted into the read-only records in types.go; callers
// never see go-github types. Every error returned by Client is an *APIError.
package githubapi

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/go-github/v79/github"
	"golang.org/x/oauth2"
)

// APIVersion is the GitHub REST API version the client is written against.
const APIVersion = "2022-11-28"

// RepositoriesService is the subset of github.RepositoriesService the client uses.
type RepositoriesService interface {
	ListByUser(ctx context.Context, user string, opts *github.RepositoryListByUserOptions) ([]*github.Repository, *github.Response, error)
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	GetReadme(ctx context.Context, owner, repo string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

// PullRequestsService is the subset of github.PullRequestsService the client uses.
type PullRequestsService interface {
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
	ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error)
}

// IssuesService is the subset of github.IssuesService the client uses.
type IssuesService interface {
	ListByRepo(ctx context.Context, owner, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

// Client is a stateless, authenticated handle on the GitHub REST API.
// It is safe for concurrent use.
type Client struct {
	repos  RepositoriesService
	pulls  PullRequestsService
	issues IssuesService
}

// NewClient creates a client that presents token on every request.
// baseURL selects a GitHub Enterprise host; empty means api.github.com.
func NewClient(token, baseURL string) (*Client, error) {
	if token == "" {
		return nil, errors.New("github token is empty")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)

	gh := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, errors.Wrap(err, "configure enterprise url")
		}
	}
	return newFromGitHub(gh), nil
}

// NewClientWithServices builds a client on top of the given services.
func NewClientWithServices(repos RepositoriesService, pulls PullRequestsService, issues IssuesService) *Client {
	return &Client{repos: repos, pulls: pulls, issues: issues}
}

func newFromGitHub(gh *github.Client) *Client {
	return NewClientWithServices(gh.Repositories, gh.PullRequests, gh.Issues)
}

// ListRepositories lists repositories owned by a user (GET /users/{username}/repos).
func (c *Client) ListRepositories(ctx context.Context, username string, opts ListRepositoriesOptions) ([]RepositorySummary, error) {
	ghOpts := &github.RepositoryListByUserOptions{
		Type:        opts.Type,
		Sort:        opts.Sort,
		ListOptions: github.ListOptions{PerPage: opts.PerPage},
	}
	repos, resp, err := c.repos.ListByUser(ctx, username, ghOpts)
	if err != nil {
		return nil, wrapError("list repositories", resp, err)
	}
	out := make([]RepositorySummary, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepositorySummary(r))
	}
	return out, nil
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*RepositorySummary, error) {
	r, resp, err := c.repos.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapError("get repository", resp, err)
	}
	summary := toRepositorySummary(r)
	return &summary, nil
}

// ListPullRequests lists pull requests in the given state.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string, perPage int) ([]PullRequest, error) {
	ghOpts := &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	prs, resp, err := c.pulls.List(ctx, owner, repo, ghOpts)
	if err != nil {
		return nil, wrapError("list pull requests", resp, err)
	}
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, toPullRequest(pr))
	}
	return out, nil
}

// GetPullRequest fetches a single pull request.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, resp, err := c.pulls.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, wrapError("get pull request", resp, err)
	}
	out := toPullRequest(pr)
	return &out, nil
}

// ListPullRequestFiles lists the files changed by a pull request.
func (c *Client) ListPullRequestFiles(ctx context.Context, owner, repo string, number, perPage int) ([]FileChange, error) {
	files, resp, err := c.pulls.ListFiles(ctx, owner, repo, number, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, wrapError("list pull request files", resp, err)
	}
	out := make([]FileChange, 0, len(files))
	for _, f := range files {
		out = append(out, FileChange{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}
	return out, nil
}

// ListPullRequestReviews lists the reviews submitted on a pull request.
func (c *Client) ListPullRequestReviews(ctx context.Context, owner, repo string, number, perPage int) ([]Review, error) {
	reviews, resp, err := c.pulls.ListReviews(ctx, owner, repo, number, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, wrapError("list pull request reviews", resp, err)
	}
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, Review{
			Reviewer: r.GetUser().GetLogin(),
			State:    r.GetState(),
		})
	}
	return out, nil
}

// CreateIssueComment posts a comment on an issue or pull request.
// Pull requests share the issue number space, so the PR number is used as-is.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*CreatedComment, error) {
	comment, resp, err := c.issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: github.Ptr(body)})
	if err != nil {
		return nil, wrapError("create comment", resp, err)
	}
	return &CreatedComment{ID: comment.GetID(), HTMLURL: comment.GetHTMLURL()}, nil
}

// ListIssues lists issues in a repository. The endpoint also returns pull
// requests; those entries have IsPullRequest set and are left for the
// caller to drop.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, opts ListIssuesOptions) ([]Issue, error) {
	ghOpts := &github.IssueListByRepoOptions{
		State:       opts.State,
		Labels:      opts.Labels,
		ListOptions: github.ListOptions{PerPage: opts.PerPage},
	}
	issues, resp, err := c.issues.ListByRepo(ctx, owner, repo, ghOpts)
	if err != nil {
		return nil, wrapError("list issues", resp, err)
	}
	out := make([]Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, toIssue(i))
	}
	return out, nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, owner, repo string, req NewIssue) (*CreatedIssue, error) {
	ghReq := &github.IssueRequest{
		Title: github.Ptr(req.Title),
		Body:  req.Body,
	}
	if len(req.Labels) > 0 {
		labels := append([]string(nil), req.Labels...)
		ghReq.Labels = &labels
	}
	issue, resp, err := c.issues.Create(ctx, owner, repo, ghReq)
	if err != nil {
		return nil, wrapError("create issue", resp, err)
	}
	return &CreatedIssue{
		Number:  issue.GetNumber(),
		Title:   issue.GetTitle(),
		HTMLURL: issue.GetHTMLURL(),
	}, nil
}

// GetReadme fetches the repository README and decodes it from base64.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	content, resp, err := c.repos.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return "", wrapError("get readme", resp, err)
	}
	text, err := content.GetContent()
	if err != nil {
		return "", &APIError{Op: "decode readme", Message: err.Error(), Err: err}
	}
	return text, nil
}

// ListCommits lists the most recent commits on the default branch.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, perPage int) ([]CommitSummary, error) {
	commits, resp, err := c.repos.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, wrapError("list commits", resp, err)
	}
	out := make([]CommitSummary, 0, len(commits))
	for _, rc := range commits {
		author := rc.GetCommit().GetAuthor()
		out = append(out, CommitSummary{
			SHA:        rc.GetSHA(),
			Message:    rc.GetCommit().GetMessage(),
			AuthorName: author.GetName(),
			AuthorDate: author.GetDate().Time,
		})
	}
	return out, nil
}

func toRepositorySummary(r *github.Repository) RepositorySummary {
	return RepositorySummary{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.Description,
		Private:       r.GetPrivate(),
		Language:      r.Language,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
		DefaultBranch: r.GetDefaultBranch(),
		CreatedAt:     r.GetCreatedAt().Time,
		UpdatedAt:     r.GetUpdatedAt().Time,
		HTMLURL:       r.GetHTMLURL(),
	}
}

func toPullRequest(pr *github.PullRequest) PullRequest {
	return PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		State:        pr.GetState(),
		Draft:        pr.GetDraft(),
		BaseRef:      pr.GetBase().GetRef(),
		HeadRef:      pr.GetHead().GetRef(),
		Body:         pr.Body,
		Commits:      pr.GetCommits(),
		Comments:     pr.GetComments(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
		CreatedAt:    pr.GetCreatedAt().Time,
		HTMLURL:      pr.GetHTMLURL(),
	}
}

func toIssue(i *github.Issue) Issue {
	labels := make([]string, 0, len(i.Labels))
	for _, l := range i.Labels {
		labels = append(labels, l.GetName())
	}
	return Issue{
		Number:        i.GetNumber(),
		Title:         i.GetTitle(),
		Author:        i.GetUser().GetLogin(),
		State:         i.GetState(),
		Labels:        labels,
		Body:          i.Body,
		Comments:      i.GetComments(),
		CreatedAt:     i.GetCreatedAt().Time,
		UpdatedAt:     i.GetUpdatedAt().Time,
		HTMLURL:       i.GetHTMLURL(),
		IsPullRequest: i.IsPullRequest(),
	}
}
