package provider

import (
	"context"

	"assistant-connector/internal/domain/dto"
)

// Presence signal kinds forwarded to the platform while a request is
// being processed.
const (
	PresenceTyping      = "typing"
	PresenceRecordVoice = "record_voice"
)

type ITelegramProvider interface {
	Run(ctx context.Context, handler func(message dto.InboundMessage)) error
	ReplyText(chatID int64, replyTo int, text string) error
	ReplyVoice(chatID int64, replyTo int, audio []byte) error
	SendPresence(chatID int64, kind string) error
	DownloadVoice(ctx context.Context, fileID string) ([]byte, error)
}
