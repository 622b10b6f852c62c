package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"assistant-connector/internal/domain/dto"
	"assistant-connector/internal/infra/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeoutSeconds = 60

// TelegramProvider adapts the Telegram Bot API to the connector. It
// owns the long-polling lifecycle and all outbound sends; the channel
// service never sees platform types.
type TelegramProvider struct {
	Logger     *logger.Logger
	Bot        *tgbotapi.BotAPI
	HttpClient *http.Client
}

func NewTelegramProvider(log *logger.Logger, token string, httpClient *http.Client) (*TelegramProvider, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	log.Info(fmt.Sprintf("Authorized on account %s", bot.Self.UserName))
	return &TelegramProvider{Logger: log, Bot: bot, HttpClient: httpClient}, nil
}

// Run long-polls updates until ctx is cancelled. Each update is
// handled on its own goroutine; per-chat ordering is the session
// store's responsibility, requests of different chats stay
// independent.
func (tp *TelegramProvider) Run(ctx context.Context, handler func(message dto.InboundMessage)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds

	updates := tp.Bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			tp.Bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			inbound, ok := tp.translate(update)
			if !ok {
				continue
			}
			go func() {
				defer func() {
					if r := recover(); r != nil {
						tp.Logger.Error(fmt.Sprintf("Recovered from panic while handling update: %v", r))
					}
				}()
				handler(inbound)
			}()
		}
	}
}

// translate classifies one update as command, text or voice. Updates
// without a usable message are dropped.
func (tp *TelegramProvider) translate(update tgbotapi.Update) (dto.InboundMessage, bool) {
	message := update.Message
	if message == nil {
		return dto.InboundMessage{}, false
	}

	inbound := dto.InboundMessage{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
	}

	switch {
	case message.IsCommand():
		inbound.Kind = dto.KindCommand
		inbound.Command = strings.ToLower(message.Command())
	case message.Voice != nil:
		inbound.Kind = dto.KindVoice
		inbound.VoiceFileID = message.Voice.FileID
	case message.Audio != nil:
		inbound.Kind = dto.KindVoice
		inbound.VoiceFileID = message.Audio.FileID
	case message.Text != "":
		inbound.Kind = dto.KindText
		inbound.Text = message.Text
	default:
		return dto.InboundMessage{}, false
	}

	return inbound, true
}

func (tp *TelegramProvider) ReplyText(chatID int64, replyTo int, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := tp.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send text message: %w", err)
	}
	return nil
}

func (tp *TelegramProvider) ReplyVoice(chatID int64, replyTo int, audio []byte) error {
	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "reply.ogg", Bytes: audio})
	voice.ReplyToMessageID = replyTo
	if _, err := tp.Bot.Send(voice); err != nil {
		return fmt.Errorf("failed to send voice message: %w", err)
	}
	return nil
}

func (tp *TelegramProvider) SendPresence(chatID int64, kind string) error {
	action := tgbotapi.NewChatAction(chatID, kind)
	if _, err := tp.Bot.Request(action); err != nil {
		return fmt.Errorf("failed to send chat action: %w", err)
	}
	return nil
}

// DownloadVoice fetches the raw bytes of a voice note through the bot
// file API.
func (tp *TelegramProvider) DownloadVoice(ctx context.Context, fileID string) ([]byte, error) {
	file, err := tp.Bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	url := file.Link(tp.Bot.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	res, err := tp.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download voice file: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		tp.Logger.Error(fmt.Sprintf("Unexpected HTTP status %s downloading voice file, response_body %s", res.Status, string(body)))
		return nil, fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice file body: %w", err)
	}
	return data, nil
}
