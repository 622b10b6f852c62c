package services

import (
	"context"
	"sync"
	"testing"

	"assistant-connector/internal/domain/entities"
	"assistant-connector/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(t *testing.T) *SessionService {
	t.Helper()
	return NewSessionService(logger.NewLogger(context.Background(), true))
}

func TestGetOrCreateInitializesSession(t *testing.T) {
	svc := newTestSessionService(t)

	session := svc.GetOrCreate(42)
	require.NotNil(t, session)
	assert.Equal(t, int64(42), session.ChatID)
	assert.Equal(t, entities.GPT3Model, session.Model)
	assert.False(t, session.AudioReplies)
	assert.NotNil(t, session.Transcript)
	assert.Empty(t, session.Transcript)

	// Second lookup returns the same session, not a fresh one.
	session.Append(entities.RoleUser, "hi")
	again := svc.GetOrCreate(42)
	assert.Len(t, again.Transcript, 1)
	assert.Equal(t, 1, svc.Count())
}

func TestResetClearsTranscriptOnly(t *testing.T) {
	svc := newTestSessionService(t)

	svc.SetModel(7, entities.GPT4Model)
	svc.SetAudioMode(7, true)
	session := svc.GetOrCreate(7)
	session.Append(entities.RoleUser, "one")
	session.Append(entities.RoleAssistant, "two")

	svc.Reset(7)

	session = svc.GetOrCreate(7)
	assert.Empty(t, session.Transcript)
	assert.Equal(t, entities.GPT4Model, session.Model)
	assert.True(t, session.AudioReplies)
}

func TestSessionsAreIsolatedPerChat(t *testing.T) {
	svc := newTestSessionService(t)

	svc.SetAudioMode(1, true)
	svc.SetModel(2, entities.GPT4Model)

	assert.True(t, svc.GetOrCreate(1).AudioReplies)
	assert.False(t, svc.GetOrCreate(2).AudioReplies)
	assert.Equal(t, entities.GPT3Model, svc.GetOrCreate(1).Model)
	assert.Equal(t, entities.GPT4Model, svc.GetOrCreate(2).Model)
	assert.Equal(t, 2, svc.Count())
}

func TestWithSessionSerializesMutations(t *testing.T) {
	svc := newTestSessionService(t)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			svc.WithSession(9, func(session *entities.Session) {
				session.Append(entities.RoleUser, "turn")
			})
		}()
	}
	wg.Wait()

	assert.Len(t, svc.GetOrCreate(9).Transcript, writers)
}
