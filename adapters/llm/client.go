package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"datadash/internal"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds the settings of an OpenAI-compatible chat completion endpoint
type Config struct {
	Model        string        // e.g., "gpt-4o-mini"
	APIKey       string        // OpenAI API key
	BaseURL      string        // Optional override (default: https://api.openai.com/v1)
	Temperature  float64       // 0.0-1.0, lower = more deterministic
	MaxTokens    int           // Default completion bound when the caller passes none
	Timeout      time.Duration // Request timeout
	SystemPrompt string        // Optional system message
}

// OpenAIClient implements ports.TextGenerator against the Chat Completions
// API. Build it once at startup and share it; it holds the HTTP client and
// credentials.
type OpenAIClient struct {
	config Config
	http   *http.Client
}

// NewOpenAIClient creates an LLM client based on config
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	if strings.TrimSpace(config.Model) == "" {
		return nil, fmt.Errorf("missing model")
	}

	config.BaseURL = strings.TrimSpace(config.BaseURL)
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	internal.DefaultLogger.Info("[OpenAIClient] Initialized with model=%s, temp=%.2f, timeout=%v",
		config.Model, config.Temperature, config.Timeout)

	return &OpenAIClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Generate sends prompt as a single user message and returns the first
// choice's content untouched
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxOutputLength int) (string, error) {
	return c.ChatCompletion(ctx, c.config.Model, prompt, maxOutputLength)
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = c.config.MaxTokens
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model:       model,
		Temperature: c.config.Temperature,
		MaxTokens:   maxTokens,
	}
	if c.config.SystemPrompt != "" {
		body.Messages = append(body.Messages, msg{Role: "system", Content: c.config.SystemPrompt})
	}
	body.Messages = append(body.Messages, msg{Role: "user", Content: prompt})

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if message := gjson.GetBytes(respRaw, "error.message"); message.Exists() {
			return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, message.String())
		}
		return "", fmt.Errorf("openai http %d: %s", resp.StatusCode, string(respRaw))
	}

	if !gjson.ValidBytes(respRaw) {
		return "", fmt.Errorf("openai response is not valid JSON")
	}
	content := gjson.GetBytes(respRaw, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("openai response missing choices")
	}

	internal.DefaultLogger.Debug("[OpenAIClient] %s completed in %v (%d total tokens)",
		model, time.Since(start), gjson.GetBytes(respRaw, "usage.total_tokens").Int())

	return content.String(), nil
}

// MockLLMClient is a canned text generator for tests and offline runs
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors

	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string, maxOutputLength int) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return "I cannot determine from the provided data.", nil
}

func (m *MockLLMClient) Model() string {
	return "mock"
}
