package chat

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/nazar256/mcp-chat/pkg/llm"
)

// Function names accepted by OpenAI-compatible endpoints.
const maxFunctionNameLength = 64

var functionNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// sanitizeFunctionName rewrites a tool name into the endpoint's function
// name alphabet. Disallowed characters become underscores.
func sanitizeFunctionName(name string) string {
	sanitized := functionNameChars.ReplaceAllString(name, "_")
	if len(sanitized) > maxFunctionNameLength {
		sanitized = sanitized[:maxFunctionNameLength]
	}
	return sanitized
}

// Declarations translates a discovered tool catalog into function
// declarations for the chat endpoint, schema carried over field for field.
// The returned map restores a tool's catalog name from its sanitized
// function name. Catalog names that sanitize to the same function name get
// a numeric suffix, so no tool shadows another.
func Declarations(tools []mcp.Tool) ([]llm.Tool, map[string]string) {
	declarations := make([]llm.Tool, 0, len(tools))
	names := make(map[string]string, len(tools))

	for _, tool := range tools {
		base := sanitizeFunctionName(tool.Name)
		sanitized := base
		for n := 2; ; n++ {
			if _, taken := names[sanitized]; !taken {
				break
			}
			sanitized = numberedName(base, n)
		}
		if sanitized != base {
			log.Warn().
				Str("tool", tool.Name).
				Str("function", sanitized).
				Msg("sanitized tool name collides with another tool, renamed")
		}
		names[sanitized] = tool.Name

		declarations = append(declarations, llm.Tool{
			Type: "function",
			Function: llm.Function{
				Name:        sanitized,
				Description: tool.Description,
				Parameters:  parameterSchema(tool.InputSchema),
			},
		})
	}
	return declarations, names
}

// numberedName appends a numeric suffix to a sanitized name, shortening the
// base as needed to stay within the function name length cap.
func numberedName(base string, n int) string {
	suffix := fmt.Sprintf("_%d", n)
	if len(base)+len(suffix) > maxFunctionNameLength {
		base = base[:maxFunctionNameLength-len(suffix)]
	}
	return base + suffix
}

// parameterSchema converts a tool input schema into the declaration's
// parameters object. Endpoints reject declarations without a type and a
// properties field, so both are always present.
func parameterSchema(schema mcp.ToolInputSchema) map[string]any {
	schemaType := schema.Type
	if schemaType == "" {
		schemaType = "object"
	}

	properties := schema.Properties
	if properties == nil {
		properties = make(map[string]interface{})
	}

	parameters := map[string]any{
		"type":       schemaType,
		"properties": properties,
	}
	if len(schema.Required) > 0 {
		parameters["required"] = schema.Required
	}
	return parameters
}

// flattenContent joins a tool result's content blocks into one text blob.
// Non-text blocks are carried as their JSON form.
func flattenContent(contents []mcp.Content) string {
	parts := make([]string, 0, len(contents))
	for _, content := range contents {
		switch block := content.(type) {
		case mcp.TextContent:
			parts = append(parts, block.Text)
		case *mcp.TextContent:
			parts = append(parts, block.Text)
		default:
			raw, err := json.Marshal(content)
			if err != nil {
				parts = append(parts, fmt.Sprintf("%v", content))
				continue
			}
			parts = append(parts, string(raw))
		}
	}
	return strings.Join(parts, "\n")
}
