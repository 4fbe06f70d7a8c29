package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClient(Config{
		Model:       "gpt-test",
		APIKey:      "sk-test",
		BaseURL:     server.URL + "/v1/",
		Temperature: 0.1,
		MaxTokens:   200,
		Timeout:     2 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestGenerateSendsPromptAndReturnsContent(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" 42 \n"}}],"usage":{"total_tokens":12}}`))
	})

	text, err := client.Generate(context.Background(), "How many?", 50)
	require.NoError(t, err)
	assert.Equal(t, " 42 \n", text)
	assert.Equal(t, "gpt-test", client.Model())

	assert.Equal(t, "gpt-test", got["model"])
	assert.Equal(t, float64(50), got["max_tokens"])
	messages := got["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "How many?", messages[0].(map[string]interface{})["content"])
}

func TestGenerateDefaultsMaxTokens(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := client.Generate(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Equal(t, float64(200), got["max_tokens"])
}

func TestGenerateSurfacesAPIErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Generate(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerateRejectsResponseWithoutChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Generate(context.Background(), "q", 10)
	assert.ErrorContains(t, err, "missing choices")
}

func TestGenerateHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "q", 10)
	assert.Error(t, err)
}

func TestNewOpenAIClientValidatesConfig(t *testing.T) {
	_, err := NewOpenAIClient(Config{Model: "m"})
	assert.Error(t, err)

	_, err = NewOpenAIClient(Config{APIKey: "k"})
	assert.Error(t, err)

	client, err := NewOpenAIClient(Config{APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, client.config.BaseURL)
}

func TestMockLLMClient(t *testing.T) {
	mock := &MockLLMClient{Response: "yes"}
	text, err := mock.Generate(context.Background(), "p", 1)
	require.NoError(t, err)
	assert.Equal(t, "yes", text)
	assert.Equal(t, []string{"p"}, mock.Prompts)
}
