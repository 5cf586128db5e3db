package github

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"

	"ghmcp/server/internal/modules"
)

const (
	promptCodeReview  = "code-review"
	promptIssueTriage = "issue-triage"
)

var (
	ownerArg = modules.PromptArgument{Name: "owner", Description: "Repository owner", Required: true}
	repoArg  = modules.PromptArgument{Name: "repo", Description: "Repository name", Required: true}
)

var promptDefinitions = []modules.Prompt{
	{
		Name:        promptCodeReview,
		Description: "Review a pull request against a fixed checklist",
		Arguments: []modules.PromptArgument{
			ownerArg,
			repoArg,
			{Name: "pr_number", Description: "Pull request number", Required: true},
		},
	},
	{
		Name:        promptIssueTriage,
		Description: "Classify the open issues of a repository",
		Arguments:   []modules.PromptArgument{ownerArg, repoArg},
	},
}

// Prompts returns the prompts served by the module.
func (m *GitHubModule) Prompts() []modules.Prompt {
	return promptDefinitions
}

// GetPrompt renders a two-turn conversation seed. It makes no API calls.
func (m *GitHubModule) GetPrompt(_ context.Context, name string, args map[string]string) (*modules.PromptResult, error) {
	owner, repo := args["owner"], args["repo"]

	switch name {
	case promptCodeReview:
		prNumber := args["pr_number"]
		if n, err := strconv.Atoi(prNumber); err != nil || n < 1 {
			return nil, &modules.ValidationError{Fields: []modules.FieldError{{
				Field:   "pr_number",
				Message: fmt.Sprintf("expected a positive integer, got %q", prNumber),
			}}}
		}
		return &modules.PromptResult{
			Description: fmt.Sprintf("Code review for %s/%s#%s", owner, repo, prNumber),
			Messages: []modules.PromptMessage{
				{
					Role: modules.RoleUser,
					Text: fmt.Sprintf("Please review pull request #%s in %s/%s.", prNumber, owner, repo),
				},
				{
					Role: modules.RoleAssistant,
					Text: fmt.Sprintf(`I'll review PR #%s in %s/%s. I'll fetch the pull request with get_pull_request and evaluate it on:

1. Correctness: does the change do what it claims, and are edge cases handled?
2. Code quality and readability: naming, structure, duplication.
3. Tests: are the changes covered, and do the tests assert the right behavior?
4. Security: input handling, secrets, permissions.
5. Performance: unnecessary work, allocations, or API calls.

I'll summarize findings per criterion and can post the review with add_pr_comment.`, prNumber, owner, repo),
				},
			},
		}, nil

	case promptIssueTriage:
		return &modules.PromptResult{
			Description: fmt.Sprintf("Issue triage for %s/%s", owner, repo),
			Messages: []modules.PromptMessage{
				{
					Role: modules.RoleUser,
					Text: fmt.Sprintf("Please triage the open issues in %s/%s.", owner, repo),
				},
				{
					Role: modules.RoleAssistant,
					Text: fmt.Sprintf(`I'll list the open issues in %s/%s with list_issues and classify each one by:

1. Type: bug, feature, or question.
2. Priority: high, medium, or low.
3. Area: the part of the codebase it affects.

I'll present the result as a table, one row per issue.`, owner, repo),
				},
			},
		}, nil
	}

	return nil, errors.Wrap(modules.ErrUnknownPrompt, name)
}
