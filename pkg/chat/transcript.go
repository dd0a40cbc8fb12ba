package chat

import (
	"fmt"

	"github.com/nazar256/mcp-chat/pkg/llm"
)

// Transcript is the append-only conversation built while answering one query.
// Recording an assistant message registers its tool invocations as pending;
// each result must answer a pending invocation ID exactly once. That keeps
// request/result correlation a property of the data structure rather than of
// the loop driving it.
type Transcript struct {
	messages []llm.Message
	pending  []string
	answered map[string]bool
}

// NewTranscript creates an empty conversation.
func NewTranscript() *Transcript {
	return &Transcript{
		answered: make(map[string]bool),
	}
}

// User appends a user message.
func (t *Transcript) User(text string) {
	t.messages = append(t.messages, llm.Message{Role: llm.RoleUser, Content: text})
}

// Assistant appends an assistant message and registers its tool invocations
// as awaiting results. An invocation ID that is already pending or already
// answered is not registered again, so a repeated ID cannot reopen a
// finished exchange.
func (t *Transcript) Assistant(msg llm.Message) {
	msg.Role = llm.RoleAssistant
	t.messages = append(t.messages, msg)
	for _, call := range msg.ToolCalls {
		if t.answered[call.ID] || t.isPending(call.ID) {
			continue
		}
		t.pending = append(t.pending, call.ID)
	}
}

func (t *Transcript) isPending(callID string) bool {
	for _, id := range t.pending {
		if id == callID {
			return true
		}
	}
	return false
}

// ToolResult appends the result for a pending invocation. Results for
// unknown or already-answered invocations are rejected.
func (t *Transcript) ToolResult(callID, content string) error {
	found := -1
	for i, id := range t.pending {
		if id == callID {
			found = i
			break
		}
	}
	if found < 0 {
		if t.answered[callID] {
			return fmt.Errorf("tool invocation %s already has a result", callID)
		}
		return fmt.Errorf("no pending tool invocation %s", callID)
	}

	t.pending = append(t.pending[:found], t.pending[found+1:]...)
	t.answered[callID] = true
	t.messages = append(t.messages, llm.Message{
		Role:       llm.RoleTool,
		Content:    content,
		ToolCallID: callID,
	})
	return nil
}

// Pending returns the invocation IDs still awaiting results, in the order
// they were requested.
func (t *Transcript) Pending() []string {
	pending := make([]string, len(t.pending))
	copy(pending, t.pending)
	return pending
}

// Messages returns the conversation so far.
func (t *Transcript) Messages() []llm.Message {
	messages := make([]llm.Message, len(t.messages))
	copy(messages, t.messages)
	return messages
}
