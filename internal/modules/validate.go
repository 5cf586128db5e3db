package modules

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// FieldError describes why a single parameter was rejected.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned by ValidateParams. It lists every missing
// required parameter and every parameter that failed a type, enum or range
// check.
type ValidationError struct {
	Missing []string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required parameter(s): "+strings.Join(e.Missing, ", "))
	}
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("parameter %q: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

// ValidateParams checks params against InputSchema.
// - Required fields: missing, nil or empty-string values are rejected
// - Type check: verifies value matches declared property type
// - Enum and minimum constraints are enforced
// - Absent optional properties with a Default get that default
// Returns validated params (shallow copy) or a *ValidationError.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params)+len(schema.Properties))
	for k, v := range params {
		out[k] = v
	}

	verr := &ValidationError{}

	// Check required fields
	for _, key := range schema.Required {
		val, exists := out[key]
		if !exists || val == nil {
			verr.Missing = append(verr.Missing, key)
			continue
		}
		// Check for zero-value strings on required fields
		if s, ok := val.(string); ok && s == "" {
			verr.Missing = append(verr.Missing, key)
		}
	}

	// Type check provided params against schema properties, in a stable order
	keys := make([]string, 0, len(out))
	for key := range out {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		val := out[key]
		prop, declared := schema.Properties[key]
		if !declared {
			// Extra params not in schema are passed through (lenient)
			continue
		}
		if val == nil {
			continue
		}
		if msg := checkProperty(val, prop); msg != "" {
			verr.Fields = append(verr.Fields, FieldError{Field: key, Message: msg})
		}
	}

	if len(verr.Missing) > 0 || len(verr.Fields) > 0 {
		return nil, verr
	}

	// Apply defaults for absent optional properties
	for key, prop := range schema.Properties {
		if prop.Default == nil {
			continue
		}
		if v, ok := out[key]; !ok || v == nil {
			out[key] = prop.Default
		}
	}

	return out, nil
}

// checkProperty returns a non-empty message when val violates prop.
func checkProperty(val any, prop Property) string {
	if msg := checkType(val, prop.Type); msg != "" {
		return msg
	}
	switch prop.Type {
	case "string":
		if len(prop.Enum) > 0 && !slices.Contains(prop.Enum, val.(string)) {
			return fmt.Sprintf("must be one of %s, got %q", strings.Join(prop.Enum, ", "), val)
		}
	case "number", "integer":
		if prop.Minimum != nil && val.(float64) < *prop.Minimum {
			return fmt.Sprintf("must be >= %v, got %v", *prop.Minimum, val)
		}
	case "array":
		if prop.Items == nil {
			return ""
		}
		for i, item := range val.([]any) {
			if msg := checkProperty(item, *prop.Items); msg != "" {
				return fmt.Sprintf("item %d %s", i, msg)
			}
		}
	}
	return ""
}

// checkType verifies that val matches the expected JSON Schema type.
func checkType(val any, expectedType string) string {
	switch expectedType {
	case "string":
		if _, ok := val.(string); !ok {
			return fmt.Sprintf("expected string, got %T", val)
		}
	case "number":
		// JSON numbers arrive as float64
		if _, ok := val.(float64); !ok {
			return fmt.Sprintf("expected number, got %T", val)
		}
	case "integer":
		f, ok := val.(float64)
		if !ok {
			return fmt.Sprintf("expected integer, got %T", val)
		}
		if f != math.Trunc(f) {
			return fmt.Sprintf("expected integer, got %v", f)
		}
		// GitHub numbers are int32; larger values would wrap in IntParam.
		if f > math.MaxInt32 || f < math.MinInt32 {
			return fmt.Sprintf("integer %v out of range", f)
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return fmt.Sprintf("expected boolean, got %T", val)
		}
	case "array":
		if _, ok := val.([]any); !ok {
			return fmt.Sprintf("expected array, got %T", val)
		}
	case "object":
		if _, ok := val.(map[string]any); !ok {
			return fmt.Sprintf("expected object, got %T", val)
		}
	// "" or unknown types: skip check (lenient)
	}
	return ""
}

// findTool looks up a tool by name from a tool list.
func findTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
