package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 2 * time.Minute

// Config holds the settings for an OpenAI-compatible chat endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpc   *http.Client
}

// New creates a chat client. BaseURL is the API root, e.g.
// https://api.openai.com/v1; the chat-completions path is appended.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Model returns the model name requests are made with.
func (c *Client) Model() string {
	return c.model
}

// Chat sends the conversation to the model and returns its reply. When tools
// are given they are declared to the model with tool choice left to it.
func (c *Client) Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error) {
	request := chatRequest{
		Model:    c.model,
		Messages: toWire(messages),
		Tools:    tools,
	}
	if len(tools) > 0 {
		request.ToolChoice = "auto"
	}

	resp, err := c.post(ctx, request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("chat request failed: %w", parsed.Error)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("chat response contained no choices")
	}

	choice := parsed.Choices[0]
	log.Debug().
		Str("model", parsed.Model).
		Str("finishReason", choice.FinishReason).
		Int("toolCalls", len(choice.Message.ToolCalls)).
		Msg("chat completion received")

	return &Response{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
	}, nil
}

func (c *Client) post(ctx context.Context, request chatRequest) (*http.Response, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if request.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	return resp, nil
}
