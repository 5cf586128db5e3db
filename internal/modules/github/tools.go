package github

import (
	"context"

	"ghmcp/server/internal/modules"
	"ghmcp/server/pkg/githubapi"
)

// Handlers run after ValidateParams, so required params are present and
// defaults are filled in. Calls are issued strictly in sequence; any
// failure aborts the handler and no partial text is returned.

type repoRef struct {
	Owner string
	Repo  string
}

func parseRepoRef(params map[string]any) repoRef {
	return repoRef{
		Owner: modules.StringParam(params, "owner"),
		Repo:  modules.StringParam(params, "repo"),
	}
}

// =============================================================================
// Repositories
// =============================================================================

type listRepositoriesInput struct {
	Owner string
	Type  string
	Sort  string
}

func (m *GitHubModule) listRepositories(ctx context.Context, params map[string]any) (string, error) {
	in := listRepositoriesInput{
		Owner: modules.StringParam(params, "owner"),
		Type:  modules.StringParam(params, "type"),
		Sort:  modules.StringParam(params, "sort"),
	}
	repos, err := m.client.ListRepositories(ctx, in.Owner, githubapi.ListRepositoriesOptions{
		Type:    in.Type,
		Sort:    in.Sort,
		PerPage: listPageSize,
	})
	if err != nil {
		return "", err
	}
	return formatRepositoryList(in.Owner, repos), nil
}

func (m *GitHubModule) getRepository(ctx context.Context, params map[string]any) (string, error) {
	ref := parseRepoRef(params)
	repo, err := m.client.GetRepository(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return "", err
	}
	return formatRepository(repo), nil
}

// =============================================================================
// Pull Requests
// =============================================================================

type listPullRequestsInput struct {
	repoRef
	State  string
	Author string
}

func (m *GitHubModule) listPullRequests(ctx context.Context, params map[string]any) (string, error) {
	in := listPullRequestsInput{
		repoRef: parseRepoRef(params),
		State:   modules.StringParam(params, "state"),
		Author:  modules.StringParam(params, "author"),
	}
	prs, err := m.client.ListPullRequests(ctx, in.Owner, in.Repo, in.State, listPageSize)
	if err != nil {
		return "", err
	}
	// Author filtering happens client-side with exact, case-sensitive equality.
	if in.Author != "" {
		filtered := prs[:0]
		for _, pr := range prs {
			if pr.Author == in.Author {
				filtered = append(filtered, pr)
			}
		}
		prs = filtered
	}
	return formatPullRequestList(in.Owner, in.Repo, in.State, prs), nil
}

type pullRequestInput struct {
	repoRef
	Number int
}

func parsePullRequestInput(params map[string]any) pullRequestInput {
	return pullRequestInput{
		repoRef: parseRepoRef(params),
		Number:  modules.IntParam(params, "pr_number"),
	}
}

func (m *GitHubModule) getPullRequest(ctx context.Context, params map[string]any) (string, error) {
	in := parsePullRequestInput(params)
	pr, err := m.client.GetPullRequest(ctx, in.Owner, in.Repo, in.Number)
	if err != nil {
		return "", err
	}
	files, err := m.client.ListPullRequestFiles(ctx, in.Owner, in.Repo, in.Number, listPageSize)
	if err != nil {
		return "", err
	}
	reviews, err := m.client.ListPullRequestReviews(ctx, in.Owner, in.Repo, in.Number, listPageSize)
	if err != nil {
		return "", err
	}
	return formatPullRequest(pr, files, reviews), nil
}

func (m *GitHubModule) addPRComment(ctx context.Context, params map[string]any) (string, error) {
	in := parsePullRequestInput(params)
	body := modules.StringParam(params, "body")
	comment, err := m.client.CreateIssueComment(ctx, in.Owner, in.Repo, in.Number, body)
	if err != nil {
		return "", err
	}
	return formatCreatedComment(in.Number, comment), nil
}

// =============================================================================
// Issues
// =============================================================================

type listIssuesInput struct {
	repoRef
	State  string
	Labels []string
}

func (m *GitHubModule) listIssues(ctx context.Context, params map[string]any) (string, error) {
	in := listIssuesInput{
		repoRef: parseRepoRef(params),
		State:   modules.StringParam(params, "state"),
		Labels:  modules.StringSliceParam(params, "labels"),
	}
	all, err := m.client.ListIssues(ctx, in.Owner, in.Repo, githubapi.ListIssuesOptions{
		State:   in.State,
		Labels:  in.Labels,
		PerPage: listPageSize,
	})
	if err != nil {
		return "", err
	}
	// The issues endpoint also returns pull requests; drop them.
	issues := make([]githubapi.Issue, 0, len(all))
	for _, issue := range all {
		if !issue.IsPullRequest {
			issues = append(issues, issue)
		}
	}
	return formatIssueList(in.Owner, in.Repo, in.State, issues), nil
}

type createIssueInput struct {
	repoRef
	Title  string
	Body   *string
	Labels []string
}

func (m *GitHubModule) createIssue(ctx context.Context, params map[string]any) (string, error) {
	in := createIssueInput{
		repoRef: parseRepoRef(params),
		Title:   modules.StringParam(params, "title"),
		Body:    modules.OptionalStringParam(params, "body"),
		Labels:  modules.StringSliceParam(params, "labels"),
	}
	issue, err := m.client.CreateIssue(ctx, in.Owner, in.Repo, githubapi.NewIssue{
		Title:  in.Title,
		Body:   in.Body,
		Labels: in.Labels,
	})
	if err != nil {
		return "", err
	}
	return formatCreatedIssue(issue), nil
}
