package fleet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phorde/freefleet/internal/core/domain"
)

func TestExecutorForSendsChatCompletion(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hello back"}},
			},
		})
	}))
	defer server.Close()

	caller := NewChatCaller(server.Client(), []domain.ProviderConfig{
		{ID: "groq", BaseURL: server.URL, APIKey: "sk-key"},
	})

	exec := caller.ExecutorFor("hello")
	result, err := exec(context.Background(), "groq/llama-3.3-70b")
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b", captured.Model)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "hello", captured.Messages[0].Content)

	completion, ok := result.(*Completion)
	require.True(t, ok)
	assert.Equal(t, "groq/llama-3.3-70b", completion.Model)
	assert.Equal(t, "hello back", completion.Content)
}

func TestExecutorForUnknownProvider(t *testing.T) {
	caller := NewChatCaller(http.DefaultClient, nil)

	exec := caller.ExecutorFor("hello")
	_, err := exec(context.Background(), "nowhere/some-model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no configured provider")
}

func TestExecutorForUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	caller := NewChatCaller(server.Client(), []domain.ProviderConfig{
		{ID: "groq", BaseURL: server.URL},
	})

	exec := caller.ExecutorFor("hello")
	_, err := exec(context.Background(), "groq/llama-3.3-70b")
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
}
