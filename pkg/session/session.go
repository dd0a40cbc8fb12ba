package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"
)

const (
	clientName    = "mcp-chat"
	clientVersion = "1.0.0"

	// connectTimeout bounds the handshake, with slack for interpreter startup
	connectTimeout = 60 * time.Second
)

// interpreters maps a tool host script extension to the command that runs it
var interpreters = map[string]string{
	".py": "python3",
	".js": "node",
}

// rpcClient is the slice of the MCP client surface a session uses. It is
// satisfied by *client.StdioMCPClient.
type rpcClient interface {
	Initialize(ctx context.Context, request mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// newClient starts a stdio MCP client over the given subprocess command.
// Package variable so tests can substitute a fake transport.
var newClient = func(command string, env []string, args ...string) (rpcClient, error) {
	return client.NewStdioMCPClient(command, env, args...)
}

// Session is a live connection to one MCP tool host subprocess. The tool
// catalog is fetched once during Launch and cached for the session lifetime.
type Session struct {
	client    rpcClient
	tools     []mcp.Tool
	server    mcp.Implementation
	closeOnce sync.Once
	closeErr  error
}

// command resolves the exec invocation for a tool host path. Scripts run
// under the interpreter matching their extension; a path without an
// extension is executed directly.
func command(path string) (string, []string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return path, nil, nil
	}
	interpreter, ok := interpreters[ext]
	if !ok {
		return "", nil, fmt.Errorf("unsupported tool host %s: no interpreter for %s files", path, ext)
	}
	return interpreter, []string{path}, nil
}

// Launch starts the tool host at the given path as a subprocess, performs the
// MCP handshake over its stdio and discovers its tool catalog.
func Launch(ctx context.Context, path string) (*Session, error) {
	execCmd, args, err := command(path)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("command", execCmd).Strs("args", args).Msg("starting tool host")
	mcpClient, err := newClient(execCmd, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to start tool host %s: %w", path, err)
	}

	session, err := connect(ctx, mcpClient)
	if err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("failed to connect to tool host %s: %w", path, err)
	}
	return session, nil
}

// connect performs the initialize handshake and caches the tool catalog.
func connect(ctx context.Context, mcpClient rpcClient) (*Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	initRequest.Params.Capabilities = mcp.ClientCapabilities{}

	initResult, err := mcpClient.Initialize(ctxWithTimeout, initRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	log.Info().
		Str("server", initResult.ServerInfo.Name).
		Str("version", initResult.ServerInfo.Version).
		Msg("tool host initialized")

	toolsResp, err := mcpClient.ListTools(ctxWithTimeout, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	log.Debug().Int("tools", len(toolsResp.Tools)).Msg("discovered tool catalog")

	tools := make([]mcp.Tool, len(toolsResp.Tools))
	copy(tools, toolsResp.Tools)

	return &Session{
		client: mcpClient,
		tools:  tools,
		server: initResult.ServerInfo,
	}, nil
}

// Tools returns the cached tool catalog.
func (s *Session) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, len(s.tools))
	copy(tools, s.tools)
	return tools
}

// ServerInfo returns the tool host's identity from the handshake.
func (s *Session) ServerInfo() mcp.Implementation {
	return s.server
}

// Call invokes a tool on the host by its catalog name.
func (s *Session) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	log.Debug().Str("tool", name).Msg("calling tool")
	result, err := s.client.CallTool(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to call tool %s: %w", name, err)
	}
	return result, nil
}

// Close terminates the connection and the tool host subprocess.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}
