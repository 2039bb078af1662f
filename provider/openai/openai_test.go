package openai_provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCompleteSendsMessagesAndReturnsUsage(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "hi there"}}},
			"usage":   map[string]int64{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", "gpt-4o-mini", 0.2, 256, 5*time.Second, srv.URL)
	out, usage, err := c.Complete(context.Background(), "be terse", "say hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi there" {
		t.Fatalf("content = %q", out)
	}
	if usage.TotalTokens != 15 {
		t.Fatalf("total tokens = %d", usage.TotalTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "say hi" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.Model != "gpt-4o-mini" {
		t.Fatalf("model = %q", got.Model)
	}
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", "gpt-4o-mini", 0, 0, 5*time.Second, srv.URL)
	if _, _, err := c.Complete(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected an error for non-200 status")
	}
}
