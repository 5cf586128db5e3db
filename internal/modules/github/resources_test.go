package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghmcp/server/internal/modules"
	"ghmcp/server/pkg/githubapi"
)

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri       string
		wantOwner string
		wantRepo  string
		wantKind  string
		wantErr   bool
	}{
		{uri: "github://acme/widgets/readme", wantOwner: "acme", wantRepo: "widgets", wantKind: kindReadme},
		{uri: "github://acme/widgets/commits", wantOwner: "acme", wantRepo: "widgets", wantKind: kindCommits},
		{uri: "github://acme/widgets/issues", wantErr: true},
		{uri: "github://acme/readme", wantErr: true},
		{uri: "github:///widgets/readme", wantErr: true},
		{uri: "github://acme/widgets/readme/extra", wantErr: true},
		{uri: "gitlab://acme/widgets/readme", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			owner, repo, kind, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResourceURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestReadResource_Readme(t *testing.T) {
	ctx := context.Background()

	api := &fakeAPI{readme: "# Widgets\n"}
	res, err := New(api).ReadResource(ctx, "github://acme/widgets/readme")
	require.NoError(t, err)
	assert.Equal(t, "github://acme/widgets/readme", res.URI)
	assert.Equal(t, modules.MimeMarkdown, res.MimeType)
	assert.Equal(t, "# Widgets\n", res.Text)
	assert.Equal(t, []string{"GetReadme acme/widgets"}, api.calls)

	res, err = New(&fakeAPI{err: notFound}).ReadResource(ctx, "github://acme/widgets/readme")
	require.NoError(t, err, "fetch failures are returned as content")
	assert.Equal(t, modules.MimePlainText, res.MimeType)
	assert.Equal(t, "Error fetching README: Not Found", res.Text)
}

func TestReadResource_Commits(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	api := &fakeAPI{commits: []githubapi.CommitSummary{
		{SHA: "0123456789abcdef", Message: "Fix cache eviction\n\nLong body.", AuthorName: "Alice", AuthorDate: at},
		{SHA: "fedcba", Message: "Initial commit", AuthorName: "Bob"},
	}}
	res, err := New(api).ReadResource(ctx, "github://acme/widgets/commits")
	require.NoError(t, err)
	assert.Equal(t, 20, api.gotPerPage)
	assert.Equal(t, modules.MimePlainText, res.MimeType)
	assert.Equal(t, "Recent commits for acme/widgets:\n\n"+
		"0123456 - Fix cache eviction (Alice, 2024-05-06T07:08:09Z)\n"+
		"fedcba - Initial commit (Bob, unknown)", res.Text)

	res, err = New(&fakeAPI{err: notFound}).ReadResource(ctx, "github://acme/widgets/commits")
	require.NoError(t, err)
	assert.Equal(t, modules.MimePlainText, res.MimeType)
	assert.Equal(t, "Error: Not Found", res.Text)
}

func TestReadResource_InvalidURI(t *testing.T) {
	api := &fakeAPI{}
	_, err := New(api).ReadResource(context.Background(), "github://acme/widgets/wiki")
	assert.ErrorIs(t, err, ErrInvalidResourceURI)
	assert.Empty(t, api.calls)
}

func TestResourceTemplates(t *testing.T) {
	tmpls := New(&fakeAPI{}).ResourceTemplates()
	require.Len(t, tmpls, 2)
	assert.Equal(t, "repo-readme", tmpls[0].Name)
	assert.Equal(t, "github://{owner}/{repo}/readme", tmpls[0].URITemplate)
	assert.Equal(t, "repo-commits", tmpls[1].Name)
	assert.Equal(t, "github://{owner}/{repo}/commits", tmpls[1].URITemplate)
}
