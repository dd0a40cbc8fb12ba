package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/nazar256/mcp-chat/pkg/config"
	"github.com/nazar256/mcp-chat/pkg/logger"
	"github.com/nazar256/mcp-chat/pkg/matchday"
)

func main() {
	// Logs go to stderr and the optional log file only; stdout carries the
	// JSON-RPC stream
	if err := logger.Init(config.GetLogLevel(), config.GetLogFile()); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	log.Info().Str("name", matchday.Name).Str("version", matchday.Version).Msg("starting tool host")

	err := server.ServeStdio(matchday.New())
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("tool host stopped")
}
