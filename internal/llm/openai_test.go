package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAITestConfig(baseURL string) LLMConfig {
	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = baseURL + "/"
	return cfg
}

func chatCompletionBody(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo-0125",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestOpenAIClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-3.5-turbo", body["model"])
		assert.Equal(t, 0.8, body["temperature"])
		assert.Equal(t, float64(1000), body["max_tokens"])

		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]any)["role"])
		assert.Equal(t, "user", messages[1].(map[string]any)["role"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletionBody(`{"independence_percentage":62}`))
	}))
	defer srv.Close()

	var captured LLMCallEvent
	client := NewOpenAIClient(openAITestConfig(srv.URL), &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskCalendarAnalysis,
		SystemPrompt: "persona",
		UserPrompt:   "task",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"independence_percentage":62}`, resp.Text)
	assert.Equal(t, "gpt-3.5-turbo-0125", resp.Model)
	assert.True(t, captured.Success)
	assert.Equal(t, ProviderOpenAI, captured.Provider)
}

func TestOpenAIClient_Generate_APIErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	var captured LLMCallEvent
	client := NewOpenAIClient(openAITestConfig(srv.URL), &captureObserver{fn: func(e LLMCallEvent) { captured = e }})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCalendarAnalysis, UserPrompt: "task"})

	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
	assert.False(t, captured.Success)
}

func TestOpenAIClient_Generate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := chatCompletionBody("")
		body["choices"] = []any{}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client := NewOpenAIClient(openAITestConfig(srv.URL), nil)
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskCalendarAnalysis, UserPrompt: "task"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIClient_Available(t *testing.T) {
	assert.True(t, NewOpenAIClient(openAITestConfig("http://x"), nil).Available(context.Background()))
	cfg := DefaultConfig()
	assert.False(t, NewOpenAIClient(cfg, nil).Available(context.Background()))
}
