package entities

// Chat roles as the completion API expects them.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Default chat model applied to sessions that never picked one.
const (
	GPT3Model = "gpt-3.5-turbo"
	GPT4Model = "gpt-4"
)

// ChatTurn is a single message of a conversation transcript. Turns are
// immutable once appended.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the per-chat mutable state: the running transcript,
// the selected model and the reply modality. It lives only in memory
// and is owned by exactly one chat.
type Session struct {
	ChatID       int64      `json:"chat_id"`
	Transcript   []ChatTurn `json:"transcript"`
	Model        string     `json:"model"`
	AudioReplies bool       `json:"audio_replies"`
}

// Append records one exchanged turn at the end of the transcript.
func (s *Session) Append(role, content string) {
	s.Transcript = append(s.Transcript, ChatTurn{Role: role, Content: content})
}
