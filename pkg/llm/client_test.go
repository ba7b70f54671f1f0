package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestSettingsEnabled(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"blank", "   ", false},
		{"placeholder", PlaceholderAPIKey, false},
		{"real", "gsk_live", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Settings{APIKey: tt.key}.Enabled())
		})
	}
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(Settings{APIKey: PlaceholderAPIKey})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestComplete_SendsPromptAndReadsFirstChoice(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  hello trader  ")))
	}))
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "gsk_test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	text, err := client.Complete(context.Background(), ChatRequest{
		System:      "be nice",
		User:        "hi",
		MaxTokens:   150,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello trader", text)

	assert.Equal(t, DefaultChatModel, got["model"])
	assert.EqualValues(t, 150, got["max_tokens"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestComplete_ImagePartIsDataURL(t *testing.T) {
	var raw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		raw = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("{}")))
	}))
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "gsk_test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), ChatRequest{
		Model: "vision-model",
		User:  "describe",
		Image: &Image{MediaType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.Contains(t, raw, "data:image/png;base64,cG5n")
	assert.Contains(t, raw, `"image_url"`)
	assert.Contains(t, raw, `"vision-model"`)
}

func TestComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "gsk_test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), ChatRequest{User: "hi"})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
}

func TestComplete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "gsk_test", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), ChatRequest{User: "hi"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompleteWithin_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(Settings{
		APIKey:  "gsk_test",
		BaseURL: server.URL + "/",
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.CompleteWithin(context.Background(), ChatRequest{User: "hi"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
