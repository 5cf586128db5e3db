package modules

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-faster/errors"

	"ghmcp/server/internal/observability"
)

// Lookup failures for names no registered module provides.
var (
	ErrUnknownModule = errors.New("unknown module")
	ErrUnknownTool   = errors.New("unknown tool")
	ErrUnknownPrompt = errors.New("unknown prompt")
)

// =============================================================================
// Registry
// =============================================================================

// Registry holds the modules served by one process.
type Registry struct {
	modules map[string]Module
}

// NewRegistry creates a registry holding the given modules.
func NewRegistry(mods ...Module) *Registry {
	r := &Registry{modules: make(map[string]Module, len(mods))}
	for _, m := range mods {
		r.RegisterModule(m)
	}
	return r
}

// RegisterModule adds a module to the registry
func (r *Registry) RegisterModule(m Module) {
	r.modules[m.Name()] = m
}

// GetModule returns a module by name
func (r *Registry) GetModule(name string) (Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// ListModules returns all registered module names, sorted.
func (r *Registry) ListModules() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Execution
// =============================================================================

// toolTimeout is the maximum duration for a single tool execution.
const toolTimeout = 30 * time.Second

// Run validates params against the tool's InputSchema and executes it.
// Every failure, including validation, is reported through the envelope;
// the returned error is reserved for an unknown module or tool.
func (r *Registry) Run(ctx context.Context, moduleName, toolName string, params map[string]any) (*ToolCallResult, error) {
	m, ok := r.modules[moduleName]
	if !ok {
		return nil, errors.Wrap(ErrUnknownModule, moduleName)
	}
	tool, found := findTool(m.Tools(), toolName)
	if !found {
		return nil, errors.Wrapf(ErrUnknownTool, "%s:%s", moduleName, toolName)
	}

	ctx, span := observability.StartSpan(ctx, "tools/call "+toolName, moduleName, toolName)
	defer span.End()
	start := time.Now()

	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		errMsg := "invalid arguments: " + err.Error()
		observability.LogToolCall(ctx, moduleName, toolName, time.Since(start).Milliseconds(), "invalid", errMsg)
		observability.EndSpan(span, errMsg)
		return ErrorResult(errMsg), nil
	}

	// Apply timeout to prevent external API calls from hanging indefinitely
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	result, err := m.ExecuteTool(ctx, toolName, validated)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		if ctx.Err() == context.DeadlineExceeded {
			errMsg = fmt.Sprintf("request to %s timed out after %s", moduleName, toolTimeout)
		}
		observability.LogToolCall(ctx, moduleName, toolName, durationMs, "error", errMsg)
		observability.EndSpan(span, errMsg)
		return ErrorResult(errMsg), nil
	}

	observability.LogToolCall(ctx, moduleName, toolName, durationMs, "success", "")
	observability.EndSpan(span, "")
	return TextResult(result), nil
}

// ReadResource reads a resource from the named module. The error is
// non-nil only when the module does not serve the URI; fetch failures
// come back as a text/plain ResourceResult.
func (r *Registry) ReadResource(ctx context.Context, moduleName, uri string) (*ResourceResult, error) {
	m, ok := r.modules[moduleName]
	if !ok {
		return nil, errors.Wrap(ErrUnknownModule, moduleName)
	}

	ctx, span := observability.StartSpan(ctx, "resources/read", moduleName, uri)
	defer span.End()
	start := time.Now()

	res, err := m.ReadResource(ctx, uri)
	if err != nil {
		observability.EndSpan(span, err.Error())
		return nil, err
	}
	observability.LogResourceRead(ctx, moduleName, uri, time.Since(start).Milliseconds(), res.MimeType)
	observability.EndSpan(span, "")
	return res, nil
}

// GetPrompt renders a prompt from the named module.
func (r *Registry) GetPrompt(ctx context.Context, moduleName, name string, args map[string]string) (*PromptResult, error) {
	m, ok := r.modules[moduleName]
	if !ok {
		return nil, errors.Wrap(ErrUnknownModule, moduleName)
	}
	for _, p := range m.Prompts() {
		if p.Name != name {
			continue
		}
		var missing []string
		for _, a := range p.Arguments {
			if a.Required && args[a.Name] == "" {
				missing = append(missing, a.Name)
			}
		}
		if len(missing) > 0 {
			return nil, &ValidationError{Missing: missing}
		}
		return m.GetPrompt(ctx, name, args)
	}
	return nil, errors.Wrap(ErrUnknownPrompt, name)
}

// ToolCount returns the number of tools across all modules.
func (r *Registry) ToolCount() int {
	n := 0
	for _, m := range r.modules {
		n += len(m.Tools())
	}
	return n
}
