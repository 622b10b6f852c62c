package dto

type MessageKind string

const (
	KindCommand MessageKind = "command"
	KindText    MessageKind = "text"
	KindVoice   MessageKind = "voice"
)

// InboundMessage is the platform-neutral shape of one incoming update,
// produced by the messaging provider and consumed by the channel
// service.
type InboundMessage struct {
	ChatID      int64       `json:"chat_id"`
	MessageID   int         `json:"message_id"`
	Kind        MessageKind `json:"kind"`
	Command     string      `json:"command,omitempty"`
	Text        string      `json:"text,omitempty"`
	VoiceFileID string      `json:"voice_file_id,omitempty"`
}
