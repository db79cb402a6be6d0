// Package mcpserver exposes the resource editing operations as MCP tools
// so an agent can drive them over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/pipeline"
)

// Server routes MCP tool calls to a pipeline.
type Server struct {
	p   *pipeline.Pipeline
	log zerolog.Logger
	mcp *server.MCPServer
}

// New registers the tools on a new MCP server.
func New(p *pipeline.Pipeline, version string, log zerolog.Logger) *Server {
	s := &Server{
		p:   p,
		log: log,
		mcp: server.NewMCPServer("scribe", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool("list_resources",
		mcp.WithDescription("List every resource of the web project's resource list."),
	), s.handleListResources)

	s.mcp.AddTool(mcp.NewTool("show_resource",
		mcp.WithDescription("Show one resource and its translations."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resource id")),
	), s.handleShowResource)

	s.mcp.AddTool(mcp.NewTool("add_resource",
		mcp.WithDescription("Add a resource and its translations."),
		mcp.WithObject("resource", mcp.Required(), mcp.Description("Resource fields: id, subject, levelKey, typeKey, duration, hasVideo, videoUrl, pdfStatement, pdfSolution")),
		mcp.WithObject("translations", mcp.Required(), mcp.Description("Map of language code to {title, description, fullDescription, notes}")),
		mcp.WithBoolean("dry_run", mcp.Description("Return diffs instead of writing")),
	), s.handleAddResource)

	s.mcp.AddTool(mcp.NewTool("update_resource",
		mcp.WithDescription("Replace a resource and its translations."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Id of the resource to replace")),
		mcp.WithObject("resource", mcp.Required(), mcp.Description("New resource fields")),
		mcp.WithObject("translations", mcp.Required(), mcp.Description("Map of language code to translation entry")),
		mcp.WithBoolean("dry_run", mcp.Description("Return diffs instead of writing")),
	), s.handleUpdateResource)

	s.mcp.AddTool(mcp.NewTool("remove_resource",
		mcp.WithDescription("Remove a resource and its translations."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Resource id")),
		mcp.WithBoolean("dry_run", mcp.Description("Return diffs instead of writing")),
	), s.handleRemoveResource)

	s.mcp.AddTool(mcp.NewTool("lint_project",
		mcp.WithDescription("Report duplicate ids, invalid resources and missing or orphan translations."),
	), s.handleLint)

	return s
}

// ServeStdio serves MCP over stdin/stdout until stdin closes.
func (s *Server) ServeStdio() error {
	s.log.Info().Msg("serving MCP on stdio")
	return server.ServeStdio(s.mcp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// decodeArg re-encodes an object argument into v.
func decodeArg(req mcp.CallToolRequest, name string, v any) error {
	raw, ok := req.GetArguments()[name]
	if !ok {
		return fmt.Errorf("missing argument %q", name)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("argument %q: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("argument %q: %w", name, err)
	}
	return nil
}

func (s *Server) pipelineFor(req mcp.CallToolRequest) *pipeline.Pipeline {
	return s.p.WithDryRun(req.GetBool("dry_run", false))
}

func editResult(res pipeline.Result, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(res.Diffs) > 0 {
		var b strings.Builder
		for _, d := range res.Diffs {
			b.WriteString(d.Diff)
		}
		return mcp.NewToolResultText(b.String()), nil
	}
	return jsonResult(map[string]any{"changed": res.Changed, "snapshot": res.Snapshot})
}

func (s *Server) handleListResources(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resText, _, err := s.p.Read(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.p.Editor().ListResources(ctx, resText)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if list == nil {
		list = []api.Resource{}
	}
	return jsonResult(list)
}

func (s *Server) handleShowResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resText, trText, err := s.p.Read(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ed := s.p.Editor()
	r, ok, err := ed.FindResource(ctx, resText, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("resource %q not found", id)), nil
	}
	set, err := ed.ReadTranslations(ctx, trText, r.Subject, r.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(api.ResourceInput{Resource: r, Translations: set})
}

func (s *Server) decodeInput(req mcp.CallToolRequest) (api.ResourceInput, error) {
	var in api.ResourceInput
	if err := decodeArg(req, "resource", &in.Resource); err != nil {
		return in, err
	}
	if err := decodeArg(req, "translations", &in.Translations); err != nil {
		return in, err
	}
	return in, nil
}

func (s *Server) handleAddResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := s.decodeInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Info().Str("resource", in.Resource.ID).Msg("mcp add_resource")
	return editResult(s.pipelineFor(req).AddResource(ctx, in))
}

func (s *Server) handleUpdateResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in, err := s.decodeInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Info().Str("resource", id).Msg("mcp update_resource")
	return editResult(s.pipelineFor(req).UpdateResource(ctx, id, in))
}

func (s *Server) handleRemoveResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.log.Info().Str("resource", id).Msg("mcp remove_resource")
	return editResult(s.pipelineFor(req).RemoveResource(ctx, id))
}

func (s *Server) handleLint(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diags, err := s.p.Lint(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no problems found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
