package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"testtrail/internal/recorder"
)

// DefaultTimeout bounds a single console call.
const DefaultTimeout = 10 * time.Second

// Client sends console tasks to a bridge server.
type Client struct {
	client  *client.Client
	timeout time.Duration
}

// Dial connects to a bridge served over streamable HTTP and performs the
// MCP handshake.
func Dial(ctx context.Context, endpoint, version string) (*Client, error) {
	httpClient, err := client.NewStreamableHttpClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create streamable-http client: %w", err)
	}
	if err := httpClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start streamable-http client: %w", err)
	}

	c := NewClient(httpClient)
	if err := c.Initialize(ctx, version); err != nil {
		httpClient.Close()
		return nil, err
	}
	return c, nil
}

// NewClient wraps a started MCP client.
func NewClient(c *client.Client) *Client {
	return &Client{client: c, timeout: DefaultTimeout}
}

// Initialize performs the MCP protocol handshake.
func (c *Client) Initialize(ctx context.Context, version string) error {
	var req mcp.InitializeRequest
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "testtrail",
		Version: version,
	}

	if _, err := c.client.Initialize(ctx, req); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	return nil
}

// Task sends a console task.
func (c *Client) Task(ctx context.Context, task recorder.Task) error {
	return c.call(ctx, map[string]interface{}{
		"type": string(task.Type),
		"data": task.Data,
	})
}

// Console sends data for one of the plain console methods.
func (c *Client) Console(ctx context.Context, method string, data interface{}) error {
	return c.call(ctx, map[string]interface{}{
		"method": method,
		"data":   data,
	})
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) call(ctx context.Context, args map[string]interface{}) error {
	var req mcp.CallToolRequest
	req.Params.Name = ToolName
	req.Params.Arguments = args

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.CallTool(timeoutCtx, req)
	if err != nil {
		return fmt.Errorf("tool call failed: %w", err)
	}
	if result.IsError {
		var msgs []string
		for _, content := range result.Content {
			if textContent, ok := mcp.AsTextContent(content); ok {
				msgs = append(msgs, textContent.Text)
			}
		}
		return fmt.Errorf("console task failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
