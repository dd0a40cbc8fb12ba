package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/nazar256/mcp-chat/pkg/llm"
)

// ToolRunner executes one tool invocation against the connected host.
type ToolRunner interface {
	Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error)
}

// Completer is the slice of the chat client surface the engine uses.
type Completer interface {
	Chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.Response, error)
	ChatStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error)
}

// CallTrace records one tool invocation for the user-facing answer.
type CallTrace struct {
	Tool string
	Args string
}

// Line renders the trace entry as shown in the terminal.
func (c CallTrace) Line() string {
	return fmt.Sprintf("[called %s with %s]", c.Tool, c.Args)
}

// Answer is the outcome of one query: the model's final text and the tool
// invocations made on the way there.
type Answer struct {
	Text  string
	Calls []CallTrace
}

// Render formats the answer for the terminal, one trace line per tool
// invocation followed by the final text.
func (a *Answer) Render() string {
	if len(a.Calls) == 0 {
		return a.Text
	}
	var b strings.Builder
	for _, call := range a.Calls {
		b.WriteString(call.Line())
		b.WriteByte('\n')
	}
	b.WriteString(a.Text)
	return b.String()
}

// Engine answers queries by letting the model call tools from a host's
// catalog. A query costs at most two completion requests: one that declares
// the tools, and one that summarizes their results.
type Engine struct {
	completer Completer
	runner    ToolRunner
	decls     []llm.Tool
	names     map[string]string

	// OnToolCall, when set, observes each tool invocation as it starts.
	OnToolCall func(CallTrace)
	// OnDelta, when set, streams the final answer text as it is generated.
	OnDelta func(string)
}

// NewEngine creates an engine over the given tool catalog.
func NewEngine(completer Completer, runner ToolRunner, catalog []mcp.Tool) *Engine {
	decls, names := Declarations(catalog)
	return &Engine{
		completer: completer,
		runner:    runner,
		decls:     decls,
		names:     names,
	}
}

// Ask answers one query. The model sees the tool catalog and decides whether
// to call tools; any invocations it requests run sequentially against the
// host before the model is asked to summarize their results.
func (e *Engine) Ask(ctx context.Context, query string) (*Answer, error) {
	transcript := NewTranscript()
	transcript.User(query)

	response, err := e.completer.Chat(ctx, transcript.Messages(), e.decls)
	if err != nil {
		return nil, err
	}

	if len(response.ToolCalls) == 0 {
		return &Answer{Text: response.Content}, nil
	}

	answer := &Answer{}
	for _, call := range ensureCallIDs(response.ToolCalls) {
		name, args := e.resolve(call)

		trace := CallTrace{Tool: name, Args: traceArgs(call)}
		if e.OnToolCall != nil {
			e.OnToolCall(trace)
		}
		answer.Calls = append(answer.Calls, trace)

		transcript.Assistant(llm.Message{ToolCalls: []llm.ToolCall{call}})
		if err := transcript.ToolResult(call.ID, e.invoke(ctx, name, args)); err != nil {
			return nil, err
		}
	}

	if pending := transcript.Pending(); len(pending) > 0 {
		return nil, fmt.Errorf("tool invocations left unanswered: %s", strings.Join(pending, ", "))
	}

	text, err := e.summarize(ctx, transcript)
	if err != nil {
		return nil, err
	}
	answer.Text = text
	return answer, nil
}

// resolve maps a requested function back to its catalog tool name and
// decodes the argument JSON. Malformed arguments become an empty argument
// set so the host's own validation can report them.
func (e *Engine) resolve(call llm.ToolCall) (string, map[string]any) {
	name := call.Function.Name
	if original, ok := e.names[name]; ok {
		name = original
	}

	var args map[string]any
	if raw := call.Function.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			log.Warn().Err(err).Str("tool", name).Msg("model produced unparseable tool arguments")
			args = nil
		}
	}
	return name, args
}

// invoke runs one tool call and renders its outcome as the tool-result text.
// A failing invocation is recorded as its error text so the batch keeps
// going and the model hears about the failure.
func (e *Engine) invoke(ctx context.Context, name string, args map[string]any) string {
	result, err := e.runner.Call(ctx, name, args)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool invocation failed")
		return fmt.Sprintf("tool call failed: %v", err)
	}
	if result.IsError {
		log.Warn().Str("tool", name).Msg("tool returned an error result")
	}
	return flattenContent(result.Content)
}

// summarize asks the model for the final answer over the full transcript.
// No tools are declared, so this turn cannot request further invocations.
func (e *Engine) summarize(ctx context.Context, transcript *Transcript) (string, error) {
	if e.OnDelta == nil {
		response, err := e.completer.Chat(ctx, transcript.Messages(), nil)
		if err != nil {
			return "", err
		}
		return response.Content, nil
	}

	chunks, err := e.completer.ChatStream(ctx, transcript.Messages())
	if err != nil {
		return "", err
	}
	for chunk := range chunks {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		if chunk.Done {
			return chunk.Text, nil
		}
		e.OnDelta(chunk.Text)
	}
	return "", errors.New("summary stream ended without a final chunk")
}

// ensureCallIDs fills in correlation IDs for invocations the model sent
// without one and replaces IDs repeated within the batch, so every
// invocation is recorded and answered under its own ID.
func ensureCallIDs(calls []llm.ToolCall) []llm.ToolCall {
	withIDs := make([]llm.ToolCall, len(calls))
	copy(withIDs, calls)
	seen := make(map[string]bool, len(withIDs))
	for i := range withIDs {
		if withIDs[i].ID == "" || seen[withIDs[i].ID] {
			withIDs[i].ID = "call_" + uuid.NewString()
		}
		seen[withIDs[i].ID] = true
	}
	return withIDs
}

func traceArgs(call llm.ToolCall) string {
	if call.Function.Arguments == "" {
		return "{}"
	}
	return call.Function.Arguments
}
