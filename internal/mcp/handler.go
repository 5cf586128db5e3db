package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-faster/errors"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"ghmcp/server/internal/modules"
)

// ServerName is reported to clients during initialize.
const ServerName = "github-mcp-server"

// Handler registers every tool, resource template and prompt of the
// registry's modules on a protocol server.
type Handler struct {
	registry *modules.Registry
	server   *sdk.Server
}

// NewHandler builds the protocol server for registry.
func NewHandler(registry *modules.Registry, version string) (*Handler, error) {
	h := &Handler{
		registry: registry,
		server:   sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: version}, nil),
	}
	for _, name := range registry.ListModules() {
		m, _ := registry.GetModule(name)
		if err := h.register(m); err != nil {
			return nil, errors.Wrapf(err, "register module %s", name)
		}
	}
	return h, nil
}

// Server returns the underlying protocol server.
func (h *Handler) Server() *sdk.Server {
	return h.server
}

// RunStdio serves a single session over stdin/stdout until ctx is done or
// the client disconnects.
func (h *Handler) RunStdio(ctx context.Context) error {
	return h.server.Run(ctx, &sdk.StdioTransport{})
}

// HTTPHandler serves the streamable HTTP transport.
func (h *Handler) HTTPHandler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return h.server
	}, nil)
}

func (h *Handler) register(m modules.Module) error {
	slog.Debug("registering module",
		"module", m.Name(),
		"description", m.Description(),
		"api_version", m.APIVersion(),
		"tools", len(m.Tools()),
	)
	for _, tool := range m.Tools() {
		schema, err := toJSONSchema(tool.InputSchema)
		if err != nil {
			return errors.Wrapf(err, "tool %s", tool.Name)
		}
		h.server.AddTool(&sdk.Tool{
			Name:        tool.Name,
			Title:       tool.Title,
			Description: tool.Description,
			InputSchema: schema,
			Annotations: toToolAnnotations(tool.Title, tool.Annotations),
		}, h.toolHandler(m.Name(), tool.Name))
	}

	for _, rt := range m.ResourceTemplates() {
		h.server.AddResourceTemplate(&sdk.ResourceTemplate{
			Name:        rt.Name,
			URITemplate: rt.URITemplate,
			Description: rt.Description,
			MIMEType:    rt.MimeType,
		}, h.resourceHandler(m.Name()))
	}

	for _, p := range m.Prompts() {
		args := make([]*sdk.PromptArgument, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, &sdk.PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required})
		}
		h.server.AddPrompt(&sdk.Prompt{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   args,
		}, h.promptHandler(m.Name()))
	}
	return nil
}

// toolHandler decodes the raw arguments and hands them to the registry,
// which validates them before the tool body runs. Failures are reported
// in the result envelope.
func (h *Handler) toolHandler(moduleName, toolName string) sdk.ToolHandler {
	return func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		params := map[string]any{}
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &params); err != nil {
				return toCallToolResult(modules.ErrorResult("invalid arguments: " + err.Error())), nil
			}
			if params == nil {
				params = map[string]any{}
			}
		}

		result, err := h.registry.Run(ctx, moduleName, toolName, params)
		if err != nil {
			return nil, err
		}
		return toCallToolResult(result), nil
	}
}

func (h *Handler) resourceHandler(moduleName string) sdk.ResourceHandler {
	return func(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
		uri := req.Params.URI
		res, err := h.registry.ReadResource(ctx, moduleName, uri)
		if err != nil {
			return nil, sdk.ResourceNotFoundError(uri)
		}
		return &sdk.ReadResourceResult{
			Contents: []*sdk.ResourceContents{{
				URI:      res.URI,
				MIMEType: res.MimeType,
				Text:     res.Text,
			}},
		}, nil
	}
}

func (h *Handler) promptHandler(moduleName string) sdk.PromptHandler {
	return func(ctx context.Context, req *sdk.GetPromptRequest) (*sdk.GetPromptResult, error) {
		res, err := h.registry.GetPrompt(ctx, moduleName, req.Params.Name, req.Params.Arguments)
		if err != nil {
			return nil, err
		}
		messages := make([]*sdk.PromptMessage, 0, len(res.Messages))
		for _, msg := range res.Messages {
			messages = append(messages, &sdk.PromptMessage{
				Role:    sdk.Role(msg.Role),
				Content: &sdk.TextContent{Text: msg.Text},
			})
		}
		return &sdk.GetPromptResult{Description: res.Description, Messages: messages}, nil
	}
}
