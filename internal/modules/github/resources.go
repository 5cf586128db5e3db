package github

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"ghmcp/server/internal/modules"
)

const uriScheme = "github://"

// Resource kinds, the last path segment of a resource URI.
const (
	kindReadme  = "readme"
	kindCommits = "commits"
)

var resourceTemplates = []modules.ResourceTemplate{
	{
		URITemplate: uriScheme + "{owner}/{repo}/" + kindReadme,
		Name:        "repo-readme",
		Description: "README file of a repository",
		MimeType:    modules.MimeMarkdown,
	},
	{
		URITemplate: uriScheme + "{owner}/{repo}/" + kindCommits,
		Name:        "repo-commits",
		Description: "Recent commits of a repository",
		MimeType:    modules.MimePlainText,
	},
}

// ResourceTemplates returns the resource templates served by the module.
func (m *GitHubModule) ResourceTemplates() []modules.ResourceTemplate {
	return resourceTemplates
}

// ErrInvalidResourceURI is returned for a URI that matches no template.
var ErrInvalidResourceURI = errors.New("invalid resource URI")

// parseResourceURI splits "github://{owner}/{repo}/{kind}".
func parseResourceURI(uri string) (owner, repo, kind string, err error) {
	rest, ok := strings.CutPrefix(uri, uriScheme)
	if !ok {
		return "", "", "", errors.Wrap(ErrInvalidResourceURI, uri)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", "", errors.Wrap(ErrInvalidResourceURI, uri)
	}
	switch parts[2] {
	case kindReadme, kindCommits:
	default:
		return "", "", "", errors.Wrap(ErrInvalidResourceURI, uri)
	}
	return parts[0], parts[1], parts[2], nil
}

// ReadResource fetches a resource document. Fetch failures come back as a
// text/plain document rather than an error.
func (m *GitHubModule) ReadResource(ctx context.Context, uri string) (*modules.ResourceResult, error) {
	owner, repo, kind, err := parseResourceURI(uri)
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindReadme:
		text, err := m.client.GetReadme(ctx, owner, repo)
		if err != nil {
			return plainText(uri, "Error fetching README: "+err.Error()), nil
		}
		return &modules.ResourceResult{URI: uri, MimeType: modules.MimeMarkdown, Text: text}, nil
	default:
		commits, err := m.client.ListCommits(ctx, owner, repo, commitsPageSize)
		if err != nil {
			return plainText(uri, "Error: "+err.Error()), nil
		}
		return plainText(uri, formatCommitLog(owner, repo, commits)), nil
	}
}

func plainText(uri, text string) *modules.ResourceResult {
	return &modules.ResourceResult{URI: uri, MimeType: modules.MimePlainText, Text: text}
}
