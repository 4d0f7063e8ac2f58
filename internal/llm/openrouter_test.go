package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenRouterClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c := NewOpenRouterClient("sk-or-test", "https://app.example.com")
	c.baseURL = server.URL
	return c
}

func TestComplete(t *testing.T) {
	var gotReq chatRequest
	var gotAuth, gotReferer string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Drafted response."}}]}`))
	})

	content, err := c.Complete(context.Background(), "Write a dispute response.", 1000, 0.7)

	require.NoError(t, err)
	assert.Equal(t, "Drafted response.", content)
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, "https://app.example.com", gotReferer)
	assert.Equal(t, "openai/gpt-4o-mini", gotReq.Model)
	assert.Equal(t, 1000, gotReq.MaxTokens)
	assert.Equal(t, 0.7, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "Write a dispute response.", gotReq.Messages[0].Content)
}

func TestComplete_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := c.Complete(context.Background(), "prompt", 1000, 0.7)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_EmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	content, err := c.Complete(context.Background(), "prompt", 1000, 0.7)

	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestComplete_MissingKey(t *testing.T) {
	c := NewOpenRouterClient("", "https://app.example.com")

	_, err := c.Complete(context.Background(), "prompt", 1000, 0.7)

	assert.Error(t, err)
}

func TestComplete_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := c.Complete(context.Background(), "prompt", 1000, 0.7)

	assert.Error(t, err)
}

func TestComplete_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, "prompt", 1000, 0.7)

	assert.Error(t, err)
}
