package services

import (
	"context"

	"assistant-connector/internal/domain/entities"
)

// ICompletionService talks to the chat completion API. Remote failures
// come back as the reply text itself, never as an error (see the
// degraded-reply note in completion-service.go).
type ICompletionService interface {
	Complete(ctx context.Context, text string, session *entities.Session) (string, error)
}
