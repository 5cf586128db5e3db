package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, ToStringSlice([]interface{}{"a", 1.0, "c"}))
	assert.Empty(t, ToStringSlice(nil))
}

func TestParamAccessors(t *testing.T) {
	params := map[string]any{
		"owner":     "acme",
		"pr_number": float64(42),
		"labels":    []any{"bug", "ui"},
		"empty":     "",
	}

	assert.Equal(t, "acme", StringParam(params, "owner"))
	assert.Equal(t, "", StringParam(params, "missing"))
	assert.Equal(t, "", StringParam(params, "pr_number"), "wrong type reads as zero value")

	assert.Equal(t, 42, IntParam(params, "pr_number"))
	assert.Equal(t, 0, IntParam(params, "missing"))

	assert.Equal(t, []string{"bug", "ui"}, StringSliceParam(params, "labels"))
	assert.Nil(t, StringSliceParam(params, "missing"))

	assert.Nil(t, OptionalStringParam(params, "missing"))
	if s := OptionalStringParam(params, "empty"); assert.NotNil(t, s) {
		assert.Equal(t, "", *s, "present but empty is distinct from absent")
	}
}

func TestResults(t *testing.T) {
	ok := TextResult("done")
	assert.False(t, ok.IsError)
	assert.Equal(t, []ContentBlock{{Type: "text", Text: "done"}}, ok.Content)
	assert.Equal(t, "done", ok.Text())

	failed := ErrorResult("Not Found")
	assert.True(t, failed.IsError)
	assert.Equal(t, "Error: Not Found", failed.Text())
}
