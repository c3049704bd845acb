// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes worklog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/example/worklog/internal/apperr"
	"github.com/example/worklog/internal/worklog"
)

// Server wraps the MCP server with worklog tools.
type Server struct {
	mcp *server.MCPServer
	svc *worklog.Service
}

// New creates a new MCP server with all worklog tools registered.
func New(svc *worklog.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Worklog",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_worklog",
		mcp.WithDescription("Create a new worklog record and place it on the todo board. "+
			"The body MUST follow the record format (optional YAML frontmatter, Markdown body). "+
			"Read the contract first via the get_record_contract tool or the "+
			"worklog://record-format resource."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Human-readable title of the worklog")),
		mcp.WithString("body", mcp.Description("Optional Markdown body")),
	), s.createWorklog)

	s.mcp.AddTool(mcp.NewTool("move_worklog",
		mcp.WithDescription("Move a worklog onto one of the three boards: todo, doing, done."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Worklog id (e.g. a1b2-0065f3c2aa)")),
		mcp.WithString("board", mcp.Required(), mcp.Description("Target board: todo, doing, or done")),
	), s.moveWorklog)

	s.mcp.AddTool(mcp.NewTool("list_board",
		mcp.WithDescription("List the worklogs on one board as (id, title) entries."),
		mcp.WithString("board", mcp.Required(), mcp.Description("Board to list: todo, doing, or done")),
	), s.listBoard)

	s.mcp.AddTool(mcp.NewTool("board_snapshot",
		mcp.WithDescription("Get all three boards with their entries, in todo, doing, done order."),
	), s.boardSnapshot)

	s.mcp.AddTool(mcp.NewTool("read_worklog",
		mcp.WithDescription("Read the full record content of a worklog."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Worklog id")),
	), s.readWorklog)

	s.mcp.AddTool(mcp.NewTool("worklog_path",
		mcp.WithDescription("Get the absolute filesystem path of a worklog record, for direct editing."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Worklog id")),
	), s.worklogPath)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical worklog record format contract. "+
			"Call this before creating records to ensure correct structure."),
	), s.getRecordContract)

	// Resource: record format contract.
	s.mcp.AddResource(
		mcp.NewResource("worklog://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical record format that all worklog records follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) createWorklog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body := ""
	if b, bodyErr := req.RequireString("body"); bodyErr == nil {
		body = b
	}

	id, err := s.svc.Create(ctx, title, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", id)), nil
}

func (s *Server) moveWorklog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	boardName, err := req.RequireString("board")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.svc.MoveTo(ctx, boardName, id); err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidBoard):
			return mcp.NewToolResultError(fmt.Sprintf("invalid board: %s (valid: todo, doing, done)", boardName)), nil
		case errors.Is(err, apperr.ErrUnknownWorklog):
			return mcp.NewToolResultError(fmt.Sprintf("unknown worklog: %s", id)), nil
		case errors.Is(err, apperr.ErrAlreadyLinked):
			return mcp.NewToolResultError(fmt.Sprintf("pointer name occupied on %s: %s", boardName, id)), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("moved %s to %s", id, boardName)), nil
}

func (s *Server) listBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardName, err := req.RequireString("board")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, err := s.svc.List(ctx, boardName)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidBoard) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid board: %s (valid: todo, doing, done)", boardName)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) boardSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.svc.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(snap, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readWorklog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownWorklog) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) worklogPath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Records come into being only through create_worklog; never hand out a
	// path no record lives at.
	if !s.svc.IsWorklog(ctx, id) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	path, err := s.svc.Open(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(path), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "worklog://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
