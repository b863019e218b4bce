package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"faq/types"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

func newTestClient(t *testing.T, h http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("sk-test", srv.URL+"/v1")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"message": msg, "type": "server_error"},
	})
}

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	var gotModel string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model
		assert.Len(t, req.Input, 2)

		writeJSON(w, http.StatusOK, map[string]any{
			"object": "list",
			"model":  req.Model,
			"data": []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			},
		})
	})

	e := NewEmbedder(client, "text-embedding-ada-002", fastRetry)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-ada-002", gotModel)
	assert.Equal(t, "text-embedding-ada-002", e.Model())
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
}

func TestEmbedEmptyBatch(t *testing.T) {
	e := NewEmbedder(newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}), "m", fastRetry)

	vecs, err := e.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vecs)
}

func TestEmbedRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			apiError(w, http.StatusTooManyRequests, "slow down")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float32{0.5}}},
		})
	})

	vec, err := NewEmbedder(client, "m", fastRetry).Embed(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, vec)
	assert.EqualValues(t, 2, calls.Load())
}

func TestEmbedDoesNotRetryAuthErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		apiError(w, http.StatusUnauthorized, "bad key")
	})

	_, err := NewEmbedder(client, "m", fastRetry).Embed(context.Background(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmbeddingService)
	assert.EqualValues(t, 1, calls.Load())
}

func TestGenerateTrimsAnswer(t *testing.T) {
	var req openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "\n  The fee is $50.  \n"},
				"finish_reason": "stop",
			}},
		})
	})

	m := NewChatModel(client, "gpt-3.5-turbo", fastRetry)
	out, err := m.Generate(context.Background(), "prompt text")
	require.NoError(t, err)

	assert.Equal(t, "The fee is $50.", out)
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
	assert.Equal(t, "prompt text", req.Messages[0].Content)
}

func TestGenerateGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		apiError(w, http.StatusInternalServerError, "boom")
	})

	_, err := NewChatModel(client, "gpt-3.5-turbo", fastRetry).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrGenerationService)
	assert.EqualValues(t, 3, calls.Load())
}

func TestGenerateNoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"choices": []any{}})
	})

	_, err := NewChatModel(client, "m", fastRetry).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, types.ErrGenerationService)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.True(t, IsTransient(&openai.APIError{HTTPStatusCode: 429}))
	assert.True(t, IsTransient(&openai.APIError{HTTPStatusCode: 503}))
	assert.False(t, IsTransient(&openai.APIError{HTTPStatusCode: 400}))
	assert.True(t, IsTransient(&openai.RequestError{HTTPStatusCode: 502}))
}
