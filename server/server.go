// Package server serves the tools over the Model Context Protocol,
// on stdio or on the streamable HTTP transport.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/config"
	"github.com/effective-security/webscraping-mcp/tools"
	"github.com/effective-security/webscraping-mcp/utils"
	"github.com/effective-security/webscraping-mcp/webscraping"
	"github.com/effective-security/xlog"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/webscraping-mcp", "server")

const (
	// Name of the MCP server.
	Name = "WebScraping.AI MCP Server"

	shutdownTimeout = 5 * time.Second
)

// Server is the MCP front end of the Router.
type Server struct {
	router   *tools.Router
	defaults webscraping.Params
	mcp      *mcpserver.MCPServer
}

// New returns a Server with all the Router tools registered.
func New(cfg *config.Config, router *tools.Router, version string) *Server {
	s := &Server{
		router:   router,
		defaults: cfg.Defaults.Params(),
		mcp: mcpserver.NewMCPServer(
			Name,
			version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithRecovery(),
		),
	}

	for _, t := range router.Tools() {
		def := t.Definition()
		s.mcp.AddTool(
			mcp.NewToolWithRawSchema(def.Name, def.Description, def.Schema().Raw()),
			s.handler(def),
		)
	}

	logger.KV(xlog.DEBUG, "tools", router.String())
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Handle merges the configured defaults into args, validates the options
// and invokes the tool.
func (s *Server) Handle(ctx context.Context, def *tools.Definition, args map[string]any) *tools.Result {
	if def.AcceptsOptions {
		args = utils.MergeInputs(utils.MergeInputs(s.defaults, def.Defaults), args)
	}
	if err := def.Validate(args); err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"tool", def.Name,
			"reason", "invalid_arguments",
			"err", err.Error(),
		)
		return tools.NewErrorResult(err.Error())
	}
	return s.router.Call(ctx, def.Name, args)
}

func (s *Server) handler(def *tools.Definition) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toCallToolResult(s.Handle(ctx, def, req.GetArguments())), nil
	}
}

func toCallToolResult(res *tools.Result) *mcp.CallToolResult {
	out := &mcp.CallToolResult{
		IsError: res.IsError,
	}
	for _, c := range res.Content {
		out.Content = append(out.Content, mcp.NewTextContent(c.Text))
	}
	return out
}

// ServeStdio serves the MCP session on in and out until ctx is done
// or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.KV(xlog.INFO, "status", "serving", "transport", "stdio")

	err := mcpserver.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return errors.WithMessage(err, "stdio transport failed")
	}
	return nil
}

// ServeHTTP serves the streamable HTTP transport on addr until ctx is done.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.KV(xlog.INFO, "status", "serving", "transport", "http", "addr", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.WithMessagef(err, "failed to listen on %s", addr)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.KV(xlog.WARNING, "reason", "shutdown", "err", err.Error())
		}
		return nil
	})
	return g.Wait()
}
