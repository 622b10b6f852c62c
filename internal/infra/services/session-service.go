package services

import (
	"fmt"
	"sync"

	"assistant-connector/internal/domain/entities"
	"assistant-connector/internal/infra/logger"
)

// SessionService keeps one Session per chat, in memory only. Sessions
// do not survive a restart. Every session carries its own mutex so
// messages of one chat are handled strictly one at a time while chats
// stay independent of each other.
type SessionService struct {
	Logger *logger.Logger

	mu       sync.Mutex
	sessions map[int64]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *entities.Session
}

func NewSessionService(log *logger.Logger) *SessionService {
	return &SessionService{
		Logger:   log,
		sessions: make(map[int64]*sessionEntry),
	}
}

func (ss *SessionService) entry(chatID int64) *sessionEntry {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	e, ok := ss.sessions[chatID]
	if !ok {
		ss.Logger.Info(fmt.Sprintf("Creating new session for chat %d", chatID))
		e = &sessionEntry{session: &entities.Session{
			ChatID:     chatID,
			Transcript: []entities.ChatTurn{},
			Model:      entities.GPT3Model,
		}}
		ss.sessions[chatID] = e
	}
	return e
}

// GetOrCreate returns the session for chatID, creating it lazily on
// first touch.
func (ss *SessionService) GetOrCreate(chatID int64) *entities.Session {
	return ss.entry(chatID).session
}

// Reset replaces the transcript with an empty sequence. Model and
// reply mode are left untouched.
func (ss *SessionService) Reset(chatID int64) {
	e := ss.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Transcript = []entities.ChatTurn{}
}

func (ss *SessionService) SetModel(chatID int64, model string) {
	e := ss.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Model = model
}

func (ss *SessionService) SetAudioMode(chatID int64, enabled bool) {
	e := ss.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.AudioReplies = enabled
}

// WithSession runs fn while holding the chat's lock. All transcript
// mutations during message handling go through here, so two messages
// of the same chat can never interleave.
func (ss *SessionService) WithSession(chatID int64, fn func(session *entities.Session)) {
	e := ss.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.session)
}

// Count reports how many sessions are live, for the status endpoint.
func (ss *SessionService) Count() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}
