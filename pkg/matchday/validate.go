package matchday

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"
)

// validated wraps a tool handler with JSON-schema validation of incoming
// arguments against the tool's declared input schema. Violations come back
// as error results, so the caller sees them as tool output rather than a
// broken request.
func validated(tool mcp.Tool, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	schema := mustCompileSchema(tool)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.Params.Arguments
		if args == nil {
			args = map[string]interface{}{}
		}

		result, err := schema.Validate(gojsonschema.NewGoLoader(args))
		if err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if !result.Valid() {
			violations := make([]string, 0, len(result.Errors()))
			for _, violation := range result.Errors() {
				violations = append(violations, violation.String())
			}
			return errorResult("invalid arguments: " + strings.Join(violations, "; ")), nil
		}

		return handler(ctx, request)
	}
}

// mustCompileSchema compiles a tool's input schema. Tool schemas are built
// from static declarations, so a failure here is a programming error.
func mustCompileSchema(tool mcp.Tool) *gojsonschema.Schema {
	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		panic(fmt.Sprintf("marshal input schema for %s: %v", tool.Name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile input schema for %s: %v", tool.Name, err))
	}
	return schema
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: message}},
		IsError: true,
	}
}
