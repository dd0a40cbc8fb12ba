package matchday

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
)

// The tools are demo lookups: responses are deterministic text composed from
// the arguments, so a client exercising the protocol always gets the same
// answer for the same call.

type registration struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func catalog() []registration {
	return []registration{
		{
			tool: mcp.NewTool("get_weather",
				mcp.WithDescription("Get the current weather for a city"),
				mcp.WithString("city",
					mcp.Required(),
					mcp.Description("Name of the city to look up"),
				),
				mcp.WithString("units",
					mcp.Description("Temperature units, celsius or fahrenheit"),
					mcp.Enum("celsius", "fahrenheit"),
				),
			),
			handler: weatherHandler,
		},
		{
			tool: mcp.NewTool("get_score",
				mcp.WithDescription("Get the latest match result for a sports team"),
				mcp.WithString("team",
					mcp.Required(),
					mcp.Description("Name of the team to look up"),
				),
				mcp.WithString("league",
					mcp.Description("League the team plays in"),
				),
			),
			handler: scoreHandler,
		},
	}
}

func weatherHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	city, err := cast.ToStringE(request.Params.Arguments["city"])
	if err != nil || city == "" {
		return errorResult("city must be a non-empty string"), nil
	}

	temperature := "21°C"
	if cast.ToString(request.Params.Arguments["units"]) == "fahrenheit" {
		temperature = "70°F"
	}

	text := fmt.Sprintf("Current weather in %s: %s, clear skies with a light northerly breeze.", city, temperature)
	return mcp.NewToolResultText(text), nil
}

func scoreHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	team, err := cast.ToStringE(request.Params.Arguments["team"])
	if err != nil || team == "" {
		return errorResult("team must be a non-empty string"), nil
	}

	league := cast.ToString(request.Params.Arguments["league"])
	if league != "" {
		return mcp.NewToolResultText(fmt.Sprintf("Latest %s result: %s beat Harbor City 3-1 at home.", league, team)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Latest result: %s beat Harbor City 3-1 at home.", team)), nil
}
