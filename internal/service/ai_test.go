package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAI(t *testing.T, h http.HandlerFunc, keyHeader string) *AIService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAIService(AIConfig{BaseURL: srv.URL + "/", APIKey: "k-1", KeyHeader: keyHeader, Model: "qwen-plus", Timeout: 5 * time.Second})
}

func TestCompleteSendsPinnedRequest(t *testing.T) {
	var got chatRequest
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "k-1", r.Header.Get("moi-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"Team is on track."}},{"message":{"content":"ignored"}}]}`))
	}, "moi-key")

	text, err := ai.Complete(context.Background(), []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "prompt"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Team is on track.", text)

	assert.Equal(t, "qwen-plus", got.Model)
	assert.Equal(t, summaryTemperature, got.Temperature)
	assert.Equal(t, summaryTopP, got.TopP)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "prompt", got.Messages[1].Content)
}

func TestCompleteUsesBearerWithoutKeyHeader(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer k-1", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, "")

	text, err := ai.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestCompleteTranslatesUpstreamError(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
	}, "moi-key")

	_, err := ai.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindInternal, se.Kind)
	assert.Equal(t, "quota exceeded", se.Details)
}

func TestCompleteErrorInSuccessBody(t *testing.T) {
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
	}, "moi-key")

	_, err := ai.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "model overloaded", se.Details)
}

func TestCompleteNoChoices(t *testing.T) {
	calls := 0
	ai := newTestAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"choices":[]}`))
	}, "moi-key")

	_, err := ai.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, 1, calls, "no retries")
}
