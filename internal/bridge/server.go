package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"testtrail/internal/recorder"
	"testtrail/pkg/logging"
)

const subsystem = "Bridge"

// ToolName is the name of the single tool the bridge exposes.
const ToolName = "console"

// Server exposes a Printer as an MCP tool.
type Server struct {
	printer   *Printer
	mcpServer *server.MCPServer
}

// NewServer creates a bridge server printing with printer.
func NewServer(printer *Printer, version string) *Server {
	mcpServer := server.NewMCPServer(
		"testtrail-bridge",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		printer:   printer,
		mcpServer: mcpServer,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the bridge over stdin and stdout until the client goes
// away.
func (s *Server) ServeStdio() error {
	logging.Info(subsystem, "Serving console bridge on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP serves the bridge with the streamable HTTP transport on addr
// until ctx is done.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)

	errCh := make(chan error, 1)
	go func() {
		logging.Info(subsystem, "Serving console bridge on %s", addr)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("bridge server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(subsystem, err, "Error shutting down bridge server")
		return err
	}
	return nil
}

func (s *Server) registerTools() {
	consoleTool := mcp.NewTool(ToolName,
		mcp.WithDescription("Print a test progress task, or log data with a plain console method"),
		mcp.WithString("type",
			mcp.Description("Task type: testStart, testStep or testEnd"),
			mcp.Enum(string(recorder.TaskTestStart), string(recorder.TaskTestStep), string(recorder.TaskTestEnd)),
		),
		mcp.WithObject("data",
			mcp.Description("Task data"),
		),
		mcp.WithString("method",
			mcp.Description("Plain console method instead of a task: log or table"),
			mcp.Enum(MethodLog, MethodTable),
		),
	)
	s.mcpServer.AddTool(consoleTool, s.handleConsole)
}

func (s *Server) handleConsole(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if method := request.GetString("method", ""); method != "" {
		if err := s.printer.Console(method, args["data"]); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("ok"), nil
	}

	taskType, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type or method argument is required"), nil
	}

	data, _ := args["data"].(map[string]interface{})
	task := recorder.Task{Type: recorder.TaskType(taskType), Data: data}
	if err := s.printer.Task(ctx, task); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}
