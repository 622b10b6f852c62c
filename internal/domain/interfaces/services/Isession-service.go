package services

import "assistant-connector/internal/domain/entities"

// ISessionService is the in-memory per-chat session store. Concurrent
// mutation of one session is undefined unless done through
// WithSession, which serializes work per chat.
type ISessionService interface {
	GetOrCreate(chatID int64) *entities.Session
	Reset(chatID int64)
	SetModel(chatID int64, model string)
	SetAudioMode(chatID int64, enabled bool)
	WithSession(chatID int64, fn func(session *entities.Session))
	Count() int
}
