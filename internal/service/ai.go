package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Sampling is pinned for summaries; callers never tune it per request.
const (
	summaryTemperature = 0.7
	summaryTopP        = 0.9
)

type AIService struct {
	baseURL   string
	apiKey    string
	keyHeader string
	model     string
	client    *http.Client
}

type AIConfig struct {
	BaseURL   string
	APIKey    string
	KeyHeader string
	Model     string
	Timeout   time.Duration
}

func NewAIService(cfg AIConfig) *AIService {
	return &AIService{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		keyHeader: cfg.KeyHeader,
		model:     cfg.Model,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	Stream      bool      `json:"stream"`
}

type upstreamError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *upstreamError `json:"error"`
}

// Complete sends one non-streaming chat completion and returns the first choice's text.
// Upstream failures come back as Internal errors carrying the upstream message in Details.
func (s *AIService) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: summaryTemperature,
		TopP:        summaryTopP,
	})
	if err != nil {
		return "", Internal("Failed to generate summary", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", Internal("Failed to generate summary", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		if s.keyHeader == "" || strings.EqualFold(s.keyHeader, "Authorization") {
			req.Header.Set("Authorization", "Bearer "+s.apiKey)
		} else {
			req.Header.Set(s.keyHeader, s.apiKey)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", upstreamFailure(err.Error(), fmt.Errorf("llm call: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstreamFailure(err.Error(), fmt.Errorf("read response: %w", err))
	}

	var result chatResponse
	decodeErr := json.Unmarshal(data, &result)
	if resp.StatusCode/100 != 2 {
		msg := strings.TrimSpace(string(data))
		if decodeErr == nil && result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		return "", upstreamFailure(msg, fmt.Errorf("llm status %d", resp.StatusCode))
	}
	if decodeErr != nil {
		return "", upstreamFailure("malformed completion response", fmt.Errorf("decode response: %w", decodeErr))
	}
	if result.Error != nil {
		return "", upstreamFailure(result.Error.Message, fmt.Errorf("llm error %s", result.Error.Type))
	}
	if len(result.Choices) == 0 {
		return "", upstreamFailure("completion returned no choices", fmt.Errorf("empty choices"))
	}
	return result.Choices[0].Message.Content, nil
}

func upstreamFailure(details string, err error) *Error {
	return &Error{Kind: KindInternal, Message: "Failed to generate summary", Details: details, Err: err}
}
