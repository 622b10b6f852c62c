package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"assistant-connector/internal/domain/dto"
	"assistant-connector/internal/domain/entities"
	"assistant-connector/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	return `{"choices":[{"index":0,"message":{"role":"assistant","content":"` + content + `"},"finish_reason":"stop"}]}`
}

func newCompletionService(host string) *CompletionService {
	log := logger.NewLogger(context.Background(), true)
	return NewCompletionService(log, &http.Client{}, host, "test-key")
}

func TestCompleteAppendsExactlyTwoTurnsOnSuccess(t *testing.T) {
	var captured dto.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionBody("hi there")))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	session := &entities.Session{Model: entities.GPT3Model, Transcript: []entities.ChatTurn{
		{Role: entities.RoleUser, Content: "earlier"},
		{Role: entities.RoleAssistant, Content: "before"},
	}}

	reply, err := svc.Complete(context.Background(), "Hello", session)
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	// The request carries the prior history plus the new user turn.
	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "Hello", captured.Messages[2].Content)
	assert.InDelta(t, 0.7, captured.Temperature, 0.0001)

	// Exactly two turns appended, user first.
	require.Len(t, session.Transcript, 4)
	assert.Equal(t, entities.ChatTurn{Role: entities.RoleUser, Content: "Hello"}, session.Transcript[2])
	assert.Equal(t, entities.ChatTurn{Role: entities.RoleAssistant, Content: "hi there"}, session.Transcript[3])
}

func TestCompleteSurfacesErrorBodyAsReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	session := &entities.Session{Model: entities.GPT3Model}

	reply, err := svc.Complete(context.Background(), "Hello", session)
	require.NoError(t, err)
	assert.Equal(t, `{"error":{"message":"rate limited"}}`, reply)
	assert.Empty(t, session.Transcript, "failed exchange must not pollute the transcript")
}

func TestCompleteSurfacesBodyWhenChoicesMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"chat.completion"}`))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	session := &entities.Session{Model: entities.GPT3Model}

	reply, err := svc.Complete(context.Background(), "Hello", session)
	require.NoError(t, err)
	assert.Equal(t, `{"object":"chat.completion"}`, reply)
	assert.Empty(t, session.Transcript)
}

func TestCompleteEmptyTextShortCircuits(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(completionBody("should never happen")))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	session := &entities.Session{Model: entities.GPT3Model}

	reply, err := svc.Complete(context.Background(), "", session)
	require.NoError(t, err)
	assert.Equal(t, "empty message", reply)
	assert.Zero(t, atomic.LoadInt32(&calls), "empty text must not reach the API")
	assert.Empty(t, session.Transcript)
}

func TestCompleteUsesSelectedModel(t *testing.T) {
	var captured dto.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionBody("ok")))
	}))
	defer server.Close()

	svc := newCompletionService(server.URL)
	session := &entities.Session{Model: entities.GPT4Model}

	_, err := svc.Complete(context.Background(), "Hello", session)
	require.NoError(t, err)
	assert.Equal(t, entities.GPT4Model, captured.Model)
}
