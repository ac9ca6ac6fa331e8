package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tinysplit"
	"github.com/aretw0/tinysplit/internal/logging"
	"github.com/aretw0/tinysplit/internal/presentation/outline"
	"github.com/aretw0/tinysplit/pkg/domain"
	"github.com/aretw0/tinysplit/pkg/runner"
	"github.com/aretw0/tinysplit/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SplitResponse is the structured result of the split tool.
type SplitResponse struct {
	Records []domain.LineRecord `json:"records" jsonschema_description:"One record per input line"`
	Stack   []string            `json:"stack" jsonschema_description:"Scopes still open at the end of the text"`
}

// Server exposes the splitter as MCP tools.
type Server struct {
	manager     *session.Manager
	logger      *slog.Logger
	sessionOpts []tinysplit.Option
	mcpServer   *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithManager enables the feed tool, backed by persisted sessions.
func WithManager(m *session.Manager) Option {
	return func(s *Server) {
		s.manager = m
	}
}

// WithLogger configures the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSessionOptions configures the sessions created by split and outline.
func WithSessionOptions(opts ...tinysplit.Option) Option {
	return func(s *Server) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tinysplit-mcp", strings.TrimSpace(tinysplit.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE, until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: split
	splitTool := mcp.NewTool("split",
		mcp.WithDescription("Split a sigil-structured text into lines, each with the chain of scopes that encloses it."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The document, one entry per line")),
		mcp.WithOutputSchema[SplitResponse](),
	)
	s.mcpServer.AddTool(splitTool, mcp.NewStructuredToolHandler(s.handleSplit))

	// TOOL: outline
	s.mcpServer.AddTool(mcp.NewTool("outline",
		mcp.WithDescription("Render the scopes of a sigil-structured text as a nested markdown list."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The document, one entry per line")),
		mcp.WithBoolean("include_text", mcp.Description("List content lines under their scope")),
	), s.handleOutline)

	// TOOL: feed
	if s.manager != nil {
		feedTool := mcp.NewTool("feed",
			mcp.WithDescription("Append lines to a persisted session and return their records."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to append to; created when missing")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Lines to append")),
			mcp.WithOutputSchema[session.FeedResult](),
		)
		s.mcpServer.AddTool(feedTool, mcp.NewStructuredToolHandler(s.handleFeed))
	}
}

func (s *Server) handleSplit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SplitResponse, error) {
	text, err := s.document(args)
	if err != nil {
		return SplitResponse{}, err
	}

	records, final, err := runner.CollectString(ctx, text,
		runner.WithSessionOptions(s.sessionOpts...),
		runner.WithLogger(s.logger),
	)
	if err != nil {
		return SplitResponse{}, fmt.Errorf("split failed: %w", err)
	}
	if records == nil {
		records = []domain.LineRecord{}
	}
	return SplitResponse{Records: records, Stack: final.Stack}, nil
}

func (s *Server) handleOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	text, err := s.document(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, _, err := runner.CollectString(ctx, text,
		runner.WithSessionOptions(s.sessionOpts...),
		runner.WithLogger(s.logger),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("outline failed: %v", err)), nil
	}

	var opts []outline.Option
	if include, _ := args["include_text"].(bool); include {
		opts = append(opts, outline.WithText())
	}
	return mcp.NewToolResultText(outline.Markdown(records, opts...)), nil
}

func (s *Server) handleFeed(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (session.FeedResult, error) {
	id, _ := args["session_id"].(string)
	if id == "" {
		return session.FeedResult{}, fmt.Errorf("session_id is required")
	}
	text, err := s.document(args)
	if err != nil {
		return session.FeedResult{}, err
	}

	res, err := s.manager.Feed(ctx, id, runner.SplitLines(text))
	if err != nil {
		return session.FeedResult{}, fmt.Errorf("feed failed: %w", err)
	}
	return *res, nil
}

// document extracts and sanitizes the text argument.
func (s *Server) document(args map[string]interface{}) (string, error) {
	text, ok := args["text"].(string)
	if !ok {
		return "", fmt.Errorf("text is required")
	}
	clean, err := runner.SanitizeInput(text)
	if err != nil {
		s.logger.Warn("MCP: Input rejected", "err", err, "size", len(text))
		return "", fmt.Errorf("input rejected: %w", err)
	}
	return clean, nil
}
