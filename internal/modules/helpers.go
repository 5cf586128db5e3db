package modules

// ToStringSlice converts []interface{} (from MCP params) to []string.
// Non-string elements are silently skipped.
func ToStringSlice(v []interface{}) []string {
	out := make([]string, 0, len(v))
	for _, item := range v {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StringParam returns params[key] as a string, or "" when absent.
func StringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// OptionalStringParam returns params[key] as a *string, or nil when absent.
func OptionalStringParam(params map[string]any, key string) *string {
	s, ok := params[key].(string)
	if !ok {
		return nil
	}
	return &s
}

// IntParam returns params[key] as an int. JSON numbers arrive as float64.
func IntParam(params map[string]any, key string) int {
	f, _ := params[key].(float64)
	return int(f)
}

// StringSliceParam returns params[key] as a []string, or nil when absent.
func StringSliceParam(params map[string]any, key string) []string {
	v, ok := params[key].([]any)
	if !ok {
		return nil
	}
	return ToStringSlice(v)
}

// TextResult wraps text in a successful single-block envelope.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// ErrorResult wraps msg in a failed envelope with the "Error: " prefix.
func ErrorResult(msg string) *ToolCallResult {
	return &ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: "Error: " + msg}},
		IsError: true,
	}
}
