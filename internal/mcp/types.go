package mcp

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ghmcp/server/internal/modules"
)

// Conversions between module definitions and protocol types.

func toJSONSchema(in modules.InputSchema) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:       in.Type,
		Properties: make(map[string]*jsonschema.Schema, len(in.Properties)),
		Required:   in.Required,
	}
	for name, prop := range in.Properties {
		ps, err := propertySchema(prop)
		if err != nil {
			return nil, errors.Wrapf(err, "property %s", name)
		}
		s.Properties[name] = ps
	}
	return s, nil
}

func propertySchema(p modules.Property) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{
		Type:        p.Type,
		Description: p.Description,
		Minimum:     p.Minimum,
	}
	for _, v := range p.Enum {
		s.Enum = append(s.Enum, v)
	}
	if p.Default != nil {
		raw, err := json.Marshal(p.Default)
		if err != nil {
			return nil, errors.Wrap(err, "default")
		}
		s.Default = raw
	}
	if p.Items != nil {
		items, err := propertySchema(*p.Items)
		if err != nil {
			return nil, errors.Wrap(err, "items")
		}
		s.Items = items
	}
	return s, nil
}

func toToolAnnotations(title string, a *modules.ToolAnnotations) *sdk.ToolAnnotations {
	if a == nil {
		return nil
	}
	out := &sdk.ToolAnnotations{
		Title:           title,
		DestructiveHint: a.DestructiveHint,
		OpenWorldHint:   a.OpenWorldHint,
	}
	if a.ReadOnlyHint != nil {
		out.ReadOnlyHint = *a.ReadOnlyHint
	}
	if a.IdempotentHint != nil {
		out.IdempotentHint = *a.IdempotentHint
	}
	return out
}

func toCallToolResult(r *modules.ToolCallResult) *sdk.CallToolResult {
	content := make([]sdk.Content, 0, len(r.Content))
	for _, c := range r.Content {
		content = append(content, &sdk.TextContent{Text: c.Text})
	}
	return &sdk.CallToolResult{Content: content, IsError: r.IsError}
}
