package modules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParams_RequiredFields(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"owner": {Type: "string", Description: "Repository owner"},
			"repo":  {Type: "string", Description: "Repository name"},
		},
		Required: []string{"owner", "repo"},
	}

	tests := []struct {
		name   string
		params map[string]any
		errMsg string
	}{
		{"all required present", map[string]any{"owner": "octocat", "repo": "hello-world"}, ""},
		{"missing one required", map[string]any{"owner": "octocat"}, "missing required parameter(s): repo"},
		{"missing all required", map[string]any{}, "missing required parameter(s): owner, repo"},
		{"nil params", nil, "missing required parameter(s): owner, repo"},
		{"empty string for required field", map[string]any{"owner": "", "repo": "hello-world"}, "missing required parameter(s): owner"},
		{"nil value for required field", map[string]any{"owner": nil, "repo": "hello-world"}, "missing required parameter(s): owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidateParams_TypeCheck(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"name":     {Type: "string"},
			"count":    {Type: "number"},
			"page":     {Type: "integer"},
			"enabled":  {Type: "boolean"},
			"tags":     {Type: "array"},
			"metadata": {Type: "object"},
		},
	}

	tests := []struct {
		name   string
		params map[string]any
		errMsg string
	}{
		{
			name:   "all correct types",
			params: map[string]any{"name": "test", "count": 5.5, "page": float64(2), "enabled": true, "tags": []any{"a"}, "metadata": map[string]any{"k": "v"}},
		},
		{"string where number expected", map[string]any{"count": "five"}, `parameter "count": expected number, got string`},
		{"number where string expected", map[string]any{"name": float64(42)}, `parameter "name": expected string, got float64`},
		{"fractional integer", map[string]any{"page": 1.5}, `parameter "page": expected integer, got 1.5`},
		{"integer above int32", map[string]any{"page": 1e20}, `parameter "page": integer 1e+20 out of range`},
		{"integer below int32", map[string]any{"page": float64(math.MinInt32) - 1}, `parameter "page": integer -2.147483649e+09 out of range`},
		{"largest int32 integer", map[string]any{"page": float64(math.MaxInt32)}, ""},
		{"string where integer expected", map[string]any{"page": "three"}, `parameter "page": expected integer, got string`},
		{"string where boolean expected", map[string]any{"enabled": "true"}, `parameter "enabled": expected boolean, got string`},
		{"string where array expected", map[string]any{"tags": "not-array"}, `parameter "tags": expected array, got string`},
		{"string where object expected", map[string]any{"metadata": "not-object"}, `parameter "metadata": expected object, got string`},
		{"extra params not in schema pass through", map[string]any{"unknown_field": "whatever"}, ""},
		{"nil value skips type check", map[string]any{"name": nil}, ""},
		{
			name:   "field errors are reported in key order",
			params: map[string]any{"page": "x", "count": "y"},
			errMsg: `parameter "count": expected number, got string; parameter "page": expected integer, got string`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestValidateParams_Constraints(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"state":     {Type: "string", Enum: []string{"open", "closed", "all"}, Default: "open"},
			"pr_number": {Type: "integer", Minimum: Min(1)},
			"labels":    {Type: "array", Items: &Property{Type: "string"}},
		},
		Required: []string{"pr_number"},
	}

	tests := []struct {
		name   string
		params map[string]any
		errMsg string
	}{
		{"valid", map[string]any{"pr_number": float64(7), "state": "all", "labels": []any{"bug", "ui"}}, ""},
		{"enum violation", map[string]any{"pr_number": float64(7), "state": "merged"}, `parameter "state": must be one of open, closed, all, got "merged"`},
		{"below minimum", map[string]any{"pr_number": float64(0)}, `parameter "pr_number": must be >= 1, got 0`},
		{"non-string label", map[string]any{"pr_number": float64(1), "labels": []any{"bug", float64(3)}}, `parameter "labels": item 1 expected string, got float64`},
		{
			name:   "missing and invalid together",
			params: map[string]any{"state": "merged"},
			errMsg: `missing required parameter(s): pr_number; parameter "state": must be one of open, closed, all, got "merged"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestValidateParams_Defaults(t *testing.T) {
	schema := InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"state": {Type: "string", Enum: []string{"open", "closed"}, Default: "open"},
			"sort":  {Type: "string", Default: "updated"},
		},
	}

	in := map[string]any{"sort": "created"}
	out, err := ValidateParams(schema, in)
	require.NoError(t, err)

	assert.Equal(t, "open", out["state"], "absent optional gets its default")
	assert.Equal(t, "created", out["sort"], "provided value wins over default")
	assert.NotContains(t, in, "state", "input map is not mutated")
}

func TestValidateParams_NoRequiredNoProperties(t *testing.T) {
	schema := InputSchema{
		Type:       "object",
		Properties: map[string]Property{},
	}

	result, err := ValidateParams(schema, map[string]any{})
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestFindTool(t *testing.T) {
	tools := []Tool{
		{Name: "get_repository", Title: "Get repository"},
		{Name: "list_repositories", Title: "List repositories"},
	}

	tool, found := findTool(tools, "list_repositories")
	require.True(t, found)
	assert.Equal(t, "List repositories", tool.Title)

	_, found = findTool(tools, "nonexistent")
	assert.False(t, found)
}
