package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nazar256/mcp-chat/pkg/chat"
	"github.com/nazar256/mcp-chat/pkg/config"
	"github.com/nazar256/mcp-chat/pkg/llm"
	"github.com/nazar256/mcp-chat/pkg/logger"
	"github.com/nazar256/mcp-chat/pkg/session"
)

const (
	// Name is the name of the chat client
	Name = "mcp-chat"
	// Version is the version of the chat client
	Version = "1.0.0"
)

var stream bool

var rootCmd = &cobra.Command{
	Use:   "mcp-chat <tool-host>",
	Short: "Chat with a model that can call tools from an MCP server",
	Long: `mcp-chat starts the given MCP tool host as a subprocess, hands its tool
catalog to an OpenAI-compatible model and runs an interactive query loop.

The tool host is a path to an MCP stdio server: a .py script (run with
python3), a .js script (run with node), or an executable.

Configuration comes from the environment: LLM_API_KEY and LLM_BASE_URL are
required, LLM_MODEL overrides the default model.`,
	Version:      Version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&stream, "stream", false, "stream final answers as they are generated")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return cmd.Usage()
	}
	hostPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	defer logger.Close()

	ctx := context.Background()
	sess, err := session.Launch(ctx, hostPath)
	if err != nil {
		return err
	}
	defer sess.Close()

	llmClient := llm.New(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})

	tools := sess.Tools()
	fmt.Printf("Connected to %s %s with %d tools:\n", sess.ServerInfo().Name, sess.ServerInfo().Version, len(tools))
	for _, tool := range tools {
		fmt.Printf("  %s - %s\n", tool.Name, tool.Description)
	}
	fmt.Printf("Answering with %s.\n", llmClient.Model())

	engine := chat.NewEngine(llmClient, sess, tools)

	if stream {
		engine.OnToolCall = func(trace chat.CallTrace) { fmt.Println(trace.Line()) }
		engine.OnDelta = func(text string) { fmt.Print(text) }
	}

	return repl(ctx, engine)
}
