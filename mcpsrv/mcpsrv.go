// Package mcpsrv exposes transcript extraction and the prompt library
// as MCP tools, so assistants can drive captures without the in-page
// button.
//
// Arguments arrive as json.RawMessage in req.Params.Arguments.
// Returning a non-nil error from a handler is a JSON-RPC protocol
// error; tool failures use result.SetError and a nil error.
package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/pipeline"
	"github.com/coursehand/coursehand/prompt"
	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/store"
)

// Implementation identifies this server to MCP clients.
var Implementation = &mcp.Implementation{
	Name:    "coursehand",
	Version: "1.0.0",
}

// Service bridges MCP tool calls to the extraction pipeline.
type Service struct {
	mgr    *browser.Manager
	st     *store.Store
	logger *slog.Logger
}

// New creates the MCP service over a started browser manager and the
// shared store.
func New(mgr *browser.Manager, st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{mgr: mgr, st: st, logger: logger}
}

// RegisterMCP registers all tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerExtractTool(srv)
	s.registerBuildPromptTool(srv)
	s.registerListPlatformsTool(srv)
	s.registerListPromptsTool(srv)
}

func inputSchema(properties map[string]any, required []string) json.RawMessage {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("mcpsrv: marshal input schema: %v", err))
	}
	return raw
}

func toolError(err error) (*mcp.CallToolResult, error) {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res, nil
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Errorf("marshal result: %w", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// --- extract_transcript ---

type extractReq struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

func (s *Service) registerExtractTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_transcript",
		Description: "Extract the transcript of a video lecture from a supported learning platform URL (YouTube, Udemy, Coursera, DataCamp). Opens the page in the managed browser; Udemy, Coursera and DataCamp need an authenticated browser profile.",
		InputSchema: inputSchema(map[string]any{
			"url":    map[string]any{"type": "string", "description": "Video page URL"},
			"format": map[string]any{"type": "string", "description": "Transcript rendering: 'markdown' (default) or 'plain'"},
		}, []string{"url"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r extractReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err))
		}
		if r.URL == "" {
			return toolError(fmt.Errorf("url is required"))
		}
		if !pipeline.ValidFormat(r.Format) {
			return toolError(fmt.Errorf("unknown format %q", r.Format))
		}

		result, err := pipeline.ExtractOnce(ctx, s.mgr, s.st, r.URL, r.Format, s.logger)
		if err != nil {
			return toolError(err)
		}
		return toolJSON(result)
	})
}

// --- build_prompt ---

type buildPromptReq struct {
	URL      string `json:"url"`
	PromptID string `json:"promptId"`
}

func (s *Service) registerBuildPromptTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "build_prompt",
		Description: "Extract a video transcript and substitute it into a prompt template from the library. Returns the filled prompt ready to paste into an AI chat.",
		InputSchema: inputSchema(map[string]any{
			"url":      map[string]any{"type": "string", "description": "Video page URL"},
			"promptId": map[string]any{"type": "string", "description": "Template id; the active template for the platform when omitted"},
		}, []string{"url"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r buildPromptReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err))
		}
		if r.URL == "" {
			return toolError(fmt.Errorf("url is required"))
		}

		result, err := pipeline.ExtractOnce(ctx, s.mgr, s.st, r.URL, "", s.logger)
		if err != nil {
			return toolError(err)
		}

		cfg, err := s.st.Settings()
		if err != nil {
			return toolError(err)
		}
		id := r.PromptID
		if id == "" {
			id = cfg.ActivePromptID(result.Platform)
		}
		tpl := prompt.Find(cfg.Prompts, id)
		body := prompt.Fill(tpl.Content, prompt.Vars{
			Title:      result.Title,
			URL:        result.URL,
			Transcript: result.Transcript,
		})

		return toolJSON(map[string]any{
			"platform": result.Platform,
			"promptId": tpl.ID,
			"prompt":   body,
		})
	})
}

// --- list_platforms ---

func (s *Service) registerListPlatformsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "list_platforms",
		Description: "List the supported learning platforms.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolJSON(map[string]any{"platforms": settings.Platforms})
	})
}

// --- list_prompts ---

func (s *Service) registerListPromptsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "list_prompts",
		Description: "List the prompt templates in the library.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cfg, err := s.st.Settings()
		if err != nil {
			return toolError(err)
		}
		return toolJSON(cfg.Prompts)
	})
}
