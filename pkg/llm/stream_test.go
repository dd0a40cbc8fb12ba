package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func writeEvent(w http.ResponseWriter, data string) {
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func TestChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("unexpected Accept header %q", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		writeEvent(w, `{"choices":[{"delta":{"content":"Hel"},"finish_reason":null}]}`)
		writeEvent(w, `{"choices":[{"delta":{"content":"lo"},"finish_reason":null}]}`)
		writeEvent(w, `{"choices":[{"delta":{},"finish_reason":"stop"}]}`)
		writeEvent(w, "[DONE]")
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	chunks, err := client.ChatStream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var deltas []string
	var final *StreamChunk
	for chunk := range chunks {
		if chunk.Err != nil {
			t.Fatalf("stream chunk error = %v", chunk.Err)
		}
		if chunk.Done {
			c := chunk
			final = &c
			continue
		}
		deltas = append(deltas, chunk.Text)
	}

	if got := strings.Join(deltas, ""); got != "Hello" {
		t.Errorf("streamed deltas = %q, want %q", got, "Hello")
	}
	if final == nil {
		t.Fatal("stream ended without a terminal chunk")
	}
	if final.Text != "Hello" {
		t.Errorf("terminal chunk text = %q, want %q", final.Text, "Hello")
	}
}

func TestChatStreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	if _, err := client.ChatStream(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err == nil {
		t.Fatal("ChatStream() expected error, got nil")
	}
}
