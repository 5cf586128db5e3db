package github

import (
	"context"

	"github.com/go-faster/errors"

	"ghmcp/server/internal/modules"
	"ghmcp/server/pkg/githubapi"
)

// API is the subset of *githubapi.Client the module calls.
type API interface {
	ListRepositories(ctx context.Context, username string, opts githubapi.ListRepositoriesOptions) ([]githubapi.RepositorySummary, error)
	GetRepository(ctx context.Context, owner, repo string) (*githubapi.RepositorySummary, error)
	ListPullRequests(ctx context.Context, owner, repo, state string, perPage int) ([]githubapi.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*githubapi.PullRequest, error)
	ListPullRequestFiles(ctx context.Context, owner, repo string, number, perPage int) ([]githubapi.FileChange, error)
	ListPullRequestReviews(ctx context.Context, owner, repo string, number, perPage int) ([]githubapi.Review, error)
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (*githubapi.CreatedComment, error)
	ListIssues(ctx context.Context, owner, repo string, opts githubapi.ListIssuesOptions) ([]githubapi.Issue, error)
	CreateIssue(ctx context.Context, owner, repo string, req githubapi.NewIssue) (*githubapi.CreatedIssue, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	ListCommits(ctx context.Context, owner, repo string, perPage int) ([]githubapi.CommitSummary, error)
}

var _ API = (*githubapi.Client)(nil)

// Fixed page sizes; there is no pagination continuation.
const (
	listPageSize    = 30
	commitsPageSize = 20
)

type toolHandler func(ctx context.Context, params map[string]any) (string, error)

// GitHubModule implements the Module interface for the GitHub API
type GitHubModule struct {
	client   API
	handlers map[string]toolHandler
}

var _ modules.Module = (*GitHubModule)(nil)

// New creates a GitHubModule that issues every call through client.
func New(client API) *GitHubModule {
	m := &GitHubModule{client: client}
	m.handlers = map[string]toolHandler{
		"list_repositories":  m.listRepositories,
		"get_repository":     m.getRepository,
		"list_pull_requests": m.listPullRequests,
		"get_pull_request":   m.getPullRequest,
		"add_pr_comment":     m.addPRComment,
		"list_issues":        m.listIssues,
		"create_issue":       m.createIssue,
	}
	return m
}

// Name returns the module name
func (m *GitHubModule) Name() string {
	return "github"
}

// Description returns the module description
func (m *GitHubModule) Description() string {
	return "GitHub API - repository inspection, issue and pull request management"
}

// APIVersion returns the GitHub API version
func (m *GitHubModule) APIVersion() string {
	return githubapi.APIVersion
}

// Tools returns all available tools
func (m *GitHubModule) Tools() []modules.Tool {
	return toolDefinitions
}

// ExecuteTool executes a tool by name and returns the formatted text.
// params must already be validated against the tool's InputSchema.
func (m *GitHubModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	handler, ok := m.handlers[name]
	if !ok {
		return "", errors.Wrap(modules.ErrUnknownTool, name)
	}
	return handler(ctx, params)
}

// =============================================================================
// Tool Definitions
// =============================================================================

var (
	ownerProp = modules.Property{Type: "string", Description: "Repository owner (user or organization)"}
	repoProp  = modules.Property{Type: "string", Description: "Repository name"}
	prNumProp = modules.Property{Type: "integer", Description: "Pull request number", Minimum: modules.Min(1)}
	stateProp = modules.Property{
		Type:        "string",
		Description: "State filter (open, closed, all). Default: open",
		Enum:        []string{"open", "closed", "all"},
		Default:     "open",
	}
	labelsProp = modules.Property{
		Type:        "array",
		Description: "Label names",
		Items:       &modules.Property{Type: "string"},
	}
)

var toolDefinitions = []modules.Tool{
	// Repositories
	{
		Name:        "list_repositories",
		Title:       "List repositories",
		Description: "List repositories for a GitHub user or organization.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner": {Type: "string", Description: "GitHub username or organization"},
				"type": {
					Type:        "string",
					Description: "Type of repositories (all, owner, public, private, member). Default: all",
					Enum:        []string{"all", "owner", "public", "private", "member"},
					Default:     "all",
				},
				"sort": {
					Type:        "string",
					Description: "Sort by (created, updated, pushed, full_name). Default: updated",
					Enum:        []string{"created", "updated", "pushed", "full_name"},
					Default:     "updated",
				},
			},
			Required: []string{"owner"},
		},
	},
	{
		Name:        "get_repository",
		Title:       "Get repository",
		Description: "Get details of a specific repository.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner": ownerProp,
				"repo":  repoProp,
			},
			Required: []string{"owner", "repo"},
		},
	},
	// Pull Requests
	{
		Name:        "list_pull_requests",
		Title:       "List pull requests",
		Description: "List pull requests in a repository, optionally filtered by author.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner":  ownerProp,
				"repo":   repoProp,
				"state":  stateProp,
				"author": {Type: "string", Description: "Only pull requests opened by this login (exact match)"},
			},
			Required: []string{"owner", "repo"},
		},
	},
	{
		Name:        "get_pull_request",
		Title:       "Get pull request",
		Description: "Get a pull request with its changed files and reviews.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner":     ownerProp,
				"repo":      repoProp,
				"pr_number": prNumProp,
			},
			Required: []string{"owner", "repo", "pr_number"},
		},
	},
	{
		Name:        "add_pr_comment",
		Title:       "Comment on pull request",
		Description: "Add a comment to a pull request.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner":     ownerProp,
				"repo":      repoProp,
				"pr_number": prNumProp,
				"body":      {Type: "string", Description: "Comment body (markdown)"},
			},
			Required: []string{"owner", "repo", "pr_number", "body"},
		},
	},
	// Issues
	{
		Name:        "list_issues",
		Title:       "List issues",
		Description: "List issues in a repository. Pull requests are excluded.",
		Annotations: modules.AnnotateReadOnly,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner":  ownerProp,
				"repo":   repoProp,
				"state":  stateProp,
				"labels": labelsProp,
			},
			Required: []string{"owner", "repo"},
		},
	},
	{
		Name:        "create_issue",
		Title:       "Create issue",
		Description: "Create a new issue in a repository.",
		Annotations: modules.AnnotateCreate,
		InputSchema: modules.InputSchema{
			Type: "object",
			Properties: map[string]modules.Property{
				"owner":  ownerProp,
				"repo":   repoProp,
				"title":  {Type: "string", Description: "Issue title"},
				"body":   {Type: "string", Description: "Issue body (markdown)"},
				"labels": labelsProp,
			},
			Required: []string{"owner", "repo", "title"},
		},
	},
}
