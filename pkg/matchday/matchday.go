package matchday

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

const (
	// Name and Version identify the tool host in the MCP handshake
	Name    = "matchday"
	Version = "1.0.0"
)

// New creates the matchday MCP server with the demo tool catalog registered.
// Every tool's arguments are validated against its declared input schema
// before its handler runs.
func New() *server.MCPServer {
	hooks := &server.Hooks{}

	hooks.AddOnError(func(id any, method mcp.MCPMethod, message any, err error) {
		log.Error().Err(err).Str("method", string(method)).Interface("id", id).Msg("request failed")
	})

	hooks.AddAfterInitialize(func(id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
		log.Info().
			Str("client", message.Params.ClientInfo.Name).
			Str("version", message.Params.ClientInfo.Version).
			Msg("client connected")
	})

	hooks.AddBeforeCallTool(func(id any, message *mcp.CallToolRequest) {
		log.Debug().
			Str("tool", message.Params.Name).
			Interface("arguments", message.Params.Arguments).
			Msg("tool call")
	})

	hooks.AddAfterCallTool(func(id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
		log.Debug().
			Str("tool", message.Params.Name).
			Bool("success", !result.IsError).
			Msg("tool call finished")
	})

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithLogging(),
		server.WithHooks(hooks),
	)

	for _, entry := range catalog() {
		log.Debug().Str("tool", entry.tool.Name).Msg("registering tool")
		s.AddTool(entry.tool, validated(entry.tool, entry.handler))
	}

	return s
}
