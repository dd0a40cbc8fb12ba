package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmaxmax/go-sse"
)

// StreamChunk is one piece of a streamed completion. The terminal chunk has
// Done set and Text holding the complete concatenated response.
type StreamChunk struct {
	Text string
	Done bool
	Err  error
}

// ChatStream sends the conversation to the model and streams the reply back
// as it is generated. The returned channel is closed after the terminal
// chunk. Streamed turns carry no tool declarations.
func (c *Client) ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	request := chatRequest{
		Model:    c.model,
		Messages: toWire(messages),
		Stream:   true,
	}

	resp, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("chat request failed with status %d: %s", resp.StatusCode, string(body))
	}

	chunks := make(chan StreamChunk)
	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		var full strings.Builder
		for ev, err := range sse.Read(resp.Body, nil) {
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					chunks <- StreamChunk{Err: fmt.Errorf("failed to read stream: %w", err)}
				}
				return
			}
			if ev.Data == "[DONE]" {
				break
			}

			var delta streamResponse
			if err := json.Unmarshal([]byte(ev.Data), &delta); err != nil {
				log.Debug().Err(err).Str("data", ev.Data).Msg("skipping unparseable stream event")
				continue
			}
			if len(delta.Choices) == 0 {
				continue
			}

			if text := delta.Choices[0].Delta.Content; text != "" {
				full.WriteString(text)
				select {
				case chunks <- StreamChunk{Text: text}:
				case <-ctx.Done():
					return
				}
			}
			if delta.Choices[0].FinishReason != nil {
				break
			}
		}

		select {
		case chunks <- StreamChunk{Text: full.String(), Done: true}:
		case <-ctx.Done():
		}
	}()
	return chunks, nil
}
