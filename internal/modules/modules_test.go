package modules

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	name     string
	executed map[string]any
	err      error
	block    bool
}

func (m *fakeModule) Name() string        { return m.name }
func (m *fakeModule) Description() string { return "fake" }
func (m *fakeModule) APIVersion() string  { return "v1" }

func (m *fakeModule) Tools() []Tool {
	return []Tool{{
		Name: "echo",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"msg":   {Type: "string"},
				"state": {Type: "string", Enum: []string{"open", "closed"}, Default: "open"},
			},
			Required: []string{"msg"},
		},
	}}
}

func (m *fakeModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	m.executed = params
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return "echo: " + StringParam(params, "msg"), nil
}

func (m *fakeModule) ResourceTemplates() []ResourceTemplate { return nil }

func (m *fakeModule) ReadResource(ctx context.Context, uri string) (*ResourceResult, error) {
	if uri == "bad" {
		return nil, errors.New("no match")
	}
	return &ResourceResult{URI: uri, MimeType: MimePlainText, Text: "body"}, nil
}

func (m *fakeModule) Prompts() []Prompt {
	return []Prompt{{
		Name: "seed",
		Arguments: []PromptArgument{
			{Name: "owner", Required: true},
			{Name: "repo", Required: true},
			{Name: "note"},
		},
	}}
}

func (m *fakeModule) GetPrompt(ctx context.Context, name string, args map[string]string) (*PromptResult, error) {
	return &PromptResult{Messages: []PromptMessage{{Role: RoleUser, Text: args["owner"] + "/" + args["repo"]}}}, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(&fakeModule{name: "zeta"}, &fakeModule{name: "alpha"})

	assert.Equal(t, []string{"alpha", "zeta"}, r.ListModules())
	assert.Equal(t, 2, r.ToolCount())

	m, ok := r.GetModule("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", m.Name())

	_, ok = r.GetModule("missing")
	assert.False(t, ok)
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("success fills defaults", func(t *testing.T) {
		m := &fakeModule{name: "fake"}
		res, err := NewRegistry(m).Run(ctx, "fake", "echo", map[string]any{"msg": "hi"})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "echo: hi", res.Text())
		assert.Equal(t, "open", m.executed["state"])
	})

	t.Run("execution error becomes envelope", func(t *testing.T) {
		m := &fakeModule{name: "fake", err: errors.New("Bad credentials")}
		res, err := NewRegistry(m).Run(ctx, "fake", "echo", map[string]any{"msg": "hi"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "Error: Bad credentials", res.Text())
	})

	t.Run("validation error skips execution", func(t *testing.T) {
		m := &fakeModule{name: "fake"}
		res, err := NewRegistry(m).Run(ctx, "fake", "echo", map[string]any{"state": "merged"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t,
			`Error: invalid arguments: missing required parameter(s): msg; parameter "state": must be one of open, closed, got "merged"`,
			res.Text())
		assert.Nil(t, m.executed)
	})

	t.Run("unknown module", func(t *testing.T) {
		_, err := NewRegistry().Run(ctx, "nope", "echo", nil)
		assert.ErrorIs(t, err, ErrUnknownModule)
		assert.EqualError(t, err, "nope: unknown module")
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := NewRegistry(&fakeModule{name: "fake"}).Run(ctx, "fake", "nope", nil)
		assert.ErrorIs(t, err, ErrUnknownTool)
	})

	t.Run("cancelled context", func(t *testing.T) {
		m := &fakeModule{name: "fake", block: true}
		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		res, err := NewRegistry(m).Run(cctx, "fake", "echo", map[string]any{"msg": "hi"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Text(), "timed out")
	})
}

func TestReadResource(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(&fakeModule{name: "fake"})

	res, err := r.ReadResource(ctx, "fake", "fake://x")
	require.NoError(t, err)
	assert.Equal(t, "body", res.Text)

	_, err = r.ReadResource(ctx, "fake", "bad")
	assert.Error(t, err)

	_, err = r.ReadResource(ctx, "missing", "fake://x")
	assert.ErrorIs(t, err, ErrUnknownModule)
}

func TestGetPrompt(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(&fakeModule{name: "fake"})

	res, err := r.GetPrompt(ctx, "fake", "seed", map[string]string{"owner": "acme", "repo": "widgets"})
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", res.Messages[0].Text)

	_, err = r.GetPrompt(ctx, "fake", "seed", map[string]string{"owner": "acme"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"repo"}, verr.Missing)

	_, err = r.GetPrompt(ctx, "fake", "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownPrompt)
	assert.EqualError(t, err, "missing: unknown prompt")
}
