package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"assistant-connector/internal/domain/dto"
	"assistant-connector/internal/domain/entities"
	"assistant-connector/internal/infra/logger"
)

const (
	completionTemperature = 0.7
	emptyMessageReply     = "empty message"
)

// CompletionService sends chat completion requests carrying the full
// session transcript.
//
// Degraded replies: when the API answers with a non-200 status or a
// body without choices, the raw body is returned as the reply text
// instead of an error. The user sees the diagnostic payload and the
// transcript stays untouched. Changing that policy means changing
// only the two `return string(body), nil` lines below.
type CompletionService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	Host       string
	APIKey     string
}

func NewCompletionService(log *logger.Logger, httpClient *http.Client, host, apiKey string) *CompletionService {
	return &CompletionService{Logger: log, HttpClient: httpClient, Host: host, APIKey: apiKey}
}

// Complete asks the model for a reply to text. On success exactly two
// turns are appended to the session transcript: the user turn, then
// the assistant turn. On any degraded path the transcript is not
// modified.
func (cs *CompletionService) Complete(ctx context.Context, text string, session *entities.Session) (string, error) {
	if text == "" {
		return emptyMessageReply, nil
	}

	request := dto.ChatCompletionRequest{
		Model:       session.Model,
		Messages:    append(append([]entities.ChatTurn{}, session.Transcript...), entities.ChatTurn{Role: entities.RoleUser, Content: text}),
		Temperature: completionTemperature,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to marshal completion payload: %v", err))
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", cs.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to create HTTP request: %v", err))
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", cs.APIKey))
	req.Header.Set("Content-Type", "application/json")

	res, err := cs.HttpClient.Do(req)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("HTTP request failed: %v", err))
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to read response body: %v", err))
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		cs.Logger.Warn(fmt.Sprintf("Completion API returned %s, surfacing body as reply, response_body %s", res.Status, string(body)))
		return string(body), nil
	}

	var response dto.ChatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil || len(response.Choices) == 0 {
		cs.Logger.Warn(fmt.Sprintf("Completion API returned 200 without choices, surfacing body as reply, response_body %s", string(body)))
		return string(body), nil
	}

	content := response.Choices[0].Message.Content
	session.Append(entities.RoleUser, text)
	session.Append(entities.RoleAssistant, content)

	return content, nil
}
