package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/nazar256/mcp-chat/pkg/chat"
)

// repl runs the interactive query loop until the user quits or input ends.
func repl(ctx context.Context, engine *chat.Engine) error {
	rl, err := readline.New("query> ")
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer rl.Close()

	fmt.Println(`Type a query, or "quit" to exit.`)

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if isQuit(query) {
			return nil
		}

		answer, err := engine.Ask(ctx, query)
		if err != nil {
			// One failed query does not end the session
			log.Error().Err(err).Msg("query failed")
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnswer(answer)
	}
}

// isQuit reports whether a line of input ends the session. The match is
// case-insensitive and ignores surrounding whitespace.
func isQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "quit")
}

func printAnswer(answer *chat.Answer) {
	if stream && len(answer.Calls) > 0 {
		// The engine hooks already printed the trace lines and streamed the
		// text; terminate it
		fmt.Println()
		return
	}
	fmt.Println(answer.Render())
}
