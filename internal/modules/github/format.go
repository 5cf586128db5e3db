package github

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ghmcp/server/pkg/githubapi"
)

// =============================================================================
// Formatters: typed record to text.
// Sentinels for absent fields are applied here, not in the records.
// =============================================================================

const (
	noDescription = "(no description)"
	noLanguage    = "N/A"
	noReviews     = "  (no reviews yet)"
	noLabels      = "no labels"
)

var upper = cases.Upper(language.Und)

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func visibility(private bool) string {
	if private {
		return "private"
	}
	return "public"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimRight(s[:i], "\r")
	}
	return s
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// formatRepositoryList: header + "- name - description [visibility]" per repo
func formatRepositoryList(owner string, repos []githubapi.RepositorySummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Repositories for %s:\n\n", owner)
	lines := make([]string, 0, len(repos))
	for _, r := range repos {
		lines = append(lines, fmt.Sprintf("- %s - %s [%s]", r.Name, orDefault(r.Description, noDescription), visibility(r.Private)))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

func formatRepository(r *githubapi.RepositorySummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Repository: %s\n", r.FullName)
	fmt.Fprintf(&sb, "Description: %s\n", orDefault(r.Description, noDescription))
	fmt.Fprintf(&sb, "Visibility: %s\n", visibility(r.Private))
	fmt.Fprintf(&sb, "Language: %s\n", orDefault(r.Language, noLanguage))
	fmt.Fprintf(&sb, "Stars: %d | Forks: %d | Open issues: %d\n", r.Stars, r.Forks, r.OpenIssues)
	fmt.Fprintf(&sb, "Default branch: %s\n", r.DefaultBranch)
	fmt.Fprintf(&sb, "Created: %s | Updated: %s\n", formatTime(r.CreatedAt), formatTime(r.UpdatedAt))
	fmt.Fprintf(&sb, "URL: %s", r.HTMLURL)
	return sb.String()
}

// formatPullRequestList: "#n title by @login [state] (head -> base)" per PR
func formatPullRequestList(owner, repo, state string, prs []githubapi.PullRequest) string {
	if len(prs) == 0 {
		return fmt.Sprintf("No %s pull requests found.", upper.String(state))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Pull requests for %s/%s (%s):\n\n", owner, repo, state)
	lines := make([]string, 0, len(prs))
	for _, pr := range prs {
		status := pr.State
		if pr.Draft {
			status += ", draft"
		}
		lines = append(lines, fmt.Sprintf("#%d %s by @%s [%s] (%s -> %s)", pr.Number, pr.Title, pr.Author, status, pr.HeadRef, pr.BaseRef))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

func formatPullRequest(pr *githubapi.PullRequest, files []githubapi.FileChange, reviews []githubapi.Review) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PR #%d: %s\n", pr.Number, pr.Title)
	fmt.Fprintf(&sb, "Author: @%s\n", pr.Author)
	state := pr.State
	if pr.Draft {
		state += " (draft)"
	}
	fmt.Fprintf(&sb, "State: %s\n", state)
	fmt.Fprintf(&sb, "Branches: %s -> %s\n", pr.HeadRef, pr.BaseRef)
	fmt.Fprintf(&sb, "Commits: %d | Comments: %d\n", pr.Commits, pr.Comments)
	fmt.Fprintf(&sb, "URL: %s\n", pr.HTMLURL)

	sb.WriteString("\nDescription:\n")
	sb.WriteString(orDefault(pr.Body, noDescription))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "\nFiles changed (%d):\n", len(files))
	for _, f := range files {
		sb.WriteString(formatFileChange(f))
		sb.WriteString("\n")
	}

	sb.WriteString("\nReviews:\n")
	if len(reviews) == 0 {
		sb.WriteString(noReviews)
	}
	for i, r := range reviews {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  @%s: %s", r.Reviewer, r.State)
	}
	return sb.String()
}

// formatFileChange left-aligns the status in a 10-character field.
func formatFileChange(f githubapi.FileChange) string {
	return fmt.Sprintf("  %-10s %s (+%d/-%d)", f.Status, f.Filename, f.Additions, f.Deletions)
}

func formatCreatedComment(prNumber int, c *githubapi.CreatedComment) string {
	return fmt.Sprintf("Comment added to PR #%d.\nURL: %s", prNumber, c.HTMLURL)
}

// formatIssueList: "#n title by @login [labels]" per issue
func formatIssueList(owner, repo, state string, issues []githubapi.Issue) string {
	if len(issues) == 0 {
		return fmt.Sprintf("No %s issues found.", upper.String(state))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Issues for %s/%s (%s):\n\n", owner, repo, state)
	lines := make([]string, 0, len(issues))
	for _, i := range issues {
		labels := noLabels
		if len(i.Labels) > 0 {
			labels = strings.Join(i.Labels, ", ")
		}
		lines = append(lines, fmt.Sprintf("#%d %s by @%s [%s]", i.Number, i.Title, i.Author, labels))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

func formatCreatedIssue(i *githubapi.CreatedIssue) string {
	return fmt.Sprintf("Issue #%d created successfully.\nTitle: %s\nURL: %s", i.Number, i.Title, i.HTMLURL)
}

// formatCommitLog: "sha7 - first line (author, date)" per commit
func formatCommitLog(owner, repo string, commits []githubapi.CommitSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recent commits for %s/%s:\n\n", owner, repo)
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		lines = append(lines, fmt.Sprintf("%s - %s (%s, %s)", shortSHA(c.SHA), firstLine(c.Message), c.AuthorName, formatTime(c.AuthorDate)))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}
