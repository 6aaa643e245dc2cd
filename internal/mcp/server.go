// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helixml/curator/domain/approval"
	"github.com/helixml/curator/domain/content"
	"github.com/helixml/curator/domain/generation"
	"github.com/helixml/curator/infrastructure/api/v1/dto"
	"github.com/helixml/curator/infrastructure/tracking"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// TopicReader lists approved topics and drafts content from them.
type TopicReader interface {
	Fetch(ctx context.Context) ([]content.Topic, error)
	GenerateContentFromTopic(ctx context.Context, topicID string) (generation.Result, error)
}

// Approver approves stored content in batches.
type Approver interface {
	ApproveByIDs(ctx context.Context, contentIDs []string, reporters ...tracking.Reporter) (approval.Progress, error)
	Processing() bool
}

// ProgressSource returns the latest batch snapshot, whether a batch has
// run, and whether one is running.
type ProgressSource interface {
	Progress() (approval.Progress, bool, bool)
}

// Server wraps the MCP server with curator tools.
type Server struct {
	mcpServer *server.MCPServer
	topics    TopicReader
	approver  Approver
	progress  ProgressSource
	version   string
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(topics TopicReader, approver Approver, progress ProgressSource, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		topics:   topics,
		approver: approver,
		progress: progress,
		version:  version,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"curator",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all curator tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("get_version",
		mcp.WithDescription("Get the curator server version"),
	), s.handleGetVersion)

	mcpServer.AddTool(mcp.NewTool("list_approved_topics",
		mcp.WithDescription("List the approved topics that content can be generated from"),
	), s.handleListApprovedTopics)

	mcpServer.AddTool(mcp.NewTool("approve_content",
		mcp.WithDescription("Approve draft content items and archive them in the file manager. Items are processed one after another; the final progress is returned."),
		mcp.WithArray("content_ids",
			mcp.Required(),
			mcp.Description("IDs of the content items to approve"),
			mcp.WithStringItems(),
		),
	), s.handleApproveContent)

	mcpServer.AddTool(mcp.NewTool("approval_progress",
		mcp.WithDescription("Get the progress of the current or last batch approval"),
	), s.handleApprovalProgress)

	mcpServer.AddTool(mcp.NewTool("generate_content",
		mcp.WithDescription("Draft content for every platform from an approved topic. Rate-limited requests are retried with backoff."),
		mcp.WithString("topic_id",
			mcp.Required(),
			mcp.Description("ID of the approved topic"),
		),
	), s.handleGenerateContent)
}

func (s *Server) handleGetVersion(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.version), nil
}

func (s *Server) handleListApprovedTopics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topics, err := s.topics.Fetch(ctx)
	if err != nil {
		s.logger.Error("list approved topics failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to list approved topics: %v", err)), nil
	}
	return jsonResult(dto.NewTopicListResponse(topics).Data)
}

func (s *Server) handleApproveContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := request.GetStringSlice("content_ids", nil)
	if len(ids) == 0 {
		return mcp.NewToolResultError("content_ids is required"), nil
	}

	progress, err := s.approver.ApproveByIDs(ctx, ids)
	if errors.Is(err, approval.ErrBatchInProgress) {
		return mcp.NewToolResultError("another batch approval is in progress"), nil
	}
	if err != nil {
		s.logger.Error("approve content failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to approve content: %v", err)), nil
	}
	return jsonResult(dto.NewProgressResponse(progress, s.approver.Processing()))
}

func (s *Server) handleApprovalProgress(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress, seen, processing := s.progress.Progress()
	if !seen {
		return mcp.NewToolResultText("no batch approval has run yet"), nil
	}
	return jsonResult(dto.NewProgressResponse(progress, processing))
}

func (s *Server) handleGenerateContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topicID, err := request.RequireString("topic_id")
	if err != nil {
		return mcp.NewToolResultError("topic_id is required"), nil
	}

	result, err := s.topics.GenerateContentFromTopic(ctx, topicID)
	if err != nil {
		var userErr *generation.UserError
		if errors.As(err, &userErr) {
			return mcp.NewToolResultError(userErr.Message()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate content: %v", err)), nil
	}
	return jsonResult(dto.NewGenerateResponse(result))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
