package modules

import "context"

// =============================================================================
// Module Interface
// =============================================================================

// Module defines the interface that all modules must implement.
// Each module provides Tools, Resources and Prompts (MCP primitives).
type Module interface {
	// Metadata
	Name() string
	Description() string
	APIVersion() string

	// Tools - LLM executes, has side effects
	Tools() []Tool
	ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error)

	// Resources - LLM reads, no side effects
	ResourceTemplates() []ResourceTemplate
	ReadResource(ctx context.Context, uri string) (*ResourceResult, error)

	// Prompts - static conversation seeds
	Prompts() []Prompt
	GetPrompt(ctx context.Context, name string, args map[string]string) (*PromptResult, error)
}

// =============================================================================
// Tool Definition
// =============================================================================

// ToolAnnotations describes the tool's behavior hints as defined by MCP 2025-06-18.
type ToolAnnotations struct {
	ReadOnlyHint    *bool `json:"readOnlyHint,omitempty"`
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
	IdempotentHint  *bool `json:"idempotentHint,omitempty"`
	OpenWorldHint   *bool `json:"openWorldHint,omitempty"`
}

// Helper to create *bool for annotation fields
func boolPtr(v bool) *bool { return &v }

// Pre-built annotation sets for common tool patterns
var (
	// AnnotateReadOnly: list, get tools
	AnnotateReadOnly = &ToolAnnotations{
		ReadOnlyHint:  boolPtr(true),
		OpenWorldHint: boolPtr(true),
	}
	// AnnotateCreate: create, add tools (non-idempotent write)
	AnnotateCreate = &ToolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description"`
	InputSchema InputSchema      `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

// InputSchema defines the input parameters for a tool
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property defines a single property in the input schema
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Minimum     *float64  `json:"minimum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// Min returns a *float64 for Property.Minimum.
func Min(v float64) *float64 { return &v }

// =============================================================================
// Resource Definition
// =============================================================================

// ResourceTemplate represents an MCP resource template, e.g.
// "github://{owner}/{repo}/readme".
type ResourceTemplate struct {
	URITemplate string `json:"uriTemplate"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// =============================================================================
// Prompt Definition
// =============================================================================

// Prompt represents a named, parameterized conversation seed.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument defines an argument for a prompt
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// =============================================================================
// Result Types
// =============================================================================

// ToolCallResult is the envelope returned by every tool invocation.
// A failed call carries IsError and a single "Error: ..." text block.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock represents a content block in the result
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Text returns the concatenated text of all content blocks.
func (r *ToolCallResult) Text() string {
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var s string
	for _, c := range r.Content {
		s += c.Text
	}
	return s
}

// ResourceResult is a fetched resource document. It has no error flag:
// a failed fetch is reported as a text/plain body, so a consumer tells
// failure apart by MimeType and content.
type ResourceResult struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// PromptResult is the conversation seed produced by a prompt.
type PromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// PromptMessage is a single turn of a prompt result.
type PromptMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MIME types used by resources
const (
	MimeMarkdown  = "text/markdown"
	MimePlainText = "text/plain"
)
