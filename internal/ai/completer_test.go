package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/devflow/backend/internal/config"
)

func TestNewCompleter_WithoutKey(t *testing.T) {
	c := NewCompleter(config.AIConfig{})

	_, err := c.Generate(context.Background(), "p", "s")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenAICompleter_Generate(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "  **Use a WaitGroup.**  "}},
			},
		})
	}))
	defer srv.Close()

	c := NewCompleter(config.AIConfig{APIKey: "test-key", Model: "gpt-4o", BaseURL: srv.URL})

	text, err := c.Generate(context.Background(), "How do I wait for goroutines?", AnswerSystemPrompt)
	require.NoError(t, err)
	assert.Equal(t, "**Use a WaitGroup.**", text)

	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, AnswerSystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "How do I wait for goroutines?", got.Messages[1].Content)
}

func TestOpenAICompleter_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewCompleter(config.AIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), "p", "s")
	assert.Error(t, err)
}

func TestAnswerPrompt(t *testing.T) {
	plain := AnswerPrompt("What is a channel?", "Go concurrency", "")
	assert.Contains(t, plain, `"What is a channel?"`)
	assert.Contains(t, plain, "**Context:** Go concurrency")
	assert.NotContains(t, plain, "User's Answer")

	withDraft := AnswerPrompt("What is a channel?", "Go concurrency", "A typed pipe")
	assert.Contains(t, withDraft, "**User's Answer:** A typed pipe")
}

func TestCleanAnswer(t *testing.T) {
	assert.Equal(t, "line one line two", CleanAnswer("line one<br>line two"))
	assert.Equal(t, "a b", CleanAnswer(" a<br />b "))
}
