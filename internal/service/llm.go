package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pageza/epicourier/backend/config"
	"github.com/pageza/epicourier/backend/internal/metrics"
)

// LLMService calls an OpenAI-compatible chat-completions endpoint
// (DeepSeek by default). It implements recommend.Completer.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[string]
}

// NewLLMService creates a new LLMService instance. A service without an API
// key reports itself unconfigured and is never called by the engine.
func NewLLMService(cfg config.LLMConfig, client *http.Client) *LLMService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &LLMService{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		model:  cfg.Model,
		client: client,
		cb:     newBreaker[string]("llm"),
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat-completions request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Configured reports whether an API key is present.
func (s *LLMService) Configured() bool {
	return s.apiKey != ""
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	if !s.Configured() {
		return "", errors.New("llm: no API key configured")
	}

	out, err := execute(s.cb, func() (string, error) {
		return s.complete(ctx, prompt)
	})
	metrics.RecordUpstream("llm", err)
	return out, err
}

func (s *LLMService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(Request{
		Model:       s.model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("no response from API")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
