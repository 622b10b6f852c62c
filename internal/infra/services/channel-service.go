package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"assistant-connector/internal/domain/dto"
	"assistant-connector/internal/domain/entities"
	Iservices "assistant-connector/internal/domain/interfaces/services"
	"assistant-connector/internal/infra/logger"
	"assistant-connector/internal/infra/provider"
	"assistant-connector/internal/middleware"
)

// How often the presence indicator fires while a request is in flight.
// A UX tunable, not a contract.
const presenceInterval = time.Second

const (
	greetingReply  = "Hello! I'm an assistant bot. I can answer all your text and voice messages."
	newChatReply   = "New chat!"
	textModeReply  = "I will now send text messages."
	audioModeReply = "I will now send voice messages."
	gpt3Reply      = "I will now use GPT-3.5-Turbo."
	gpt4Reply      = "I will now use GPT-4."
	unknownReply   = "Unknown command. Send /help to list what I understand."
	helpReply      = "Available commands:\n" +
		"/start - reset the conversation and greet\n" +
		"/new - start a new chat\n" +
		"/text - reply with text messages\n" +
		"/audio - reply with voice messages\n" +
		"/gpt3 - use GPT-3.5-Turbo\n" +
		"/gpt4 - use GPT-4\n" +
		"/help - show this message"
)

// ChannelService is the dispatcher: commands mutate session state and
// acknowledge, everything else goes through the model (and the speech
// bridge when either side of the exchange is audio).
type ChannelService struct {
	Logger           *logger.Logger
	Sessions         Iservices.ISessionService
	Completion       Iservices.ICompletionService
	Speech           Iservices.ISpeechService
	Provider         provider.ITelegramProvider
	PresenceInterval time.Duration
}

func NewChannelService(log *logger.Logger, sessions Iservices.ISessionService, completion Iservices.ICompletionService, speech Iservices.ISpeechService, tgProvider provider.ITelegramProvider) *ChannelService {
	return &ChannelService{Logger: log, Sessions: sessions, Completion: completion, Speech: speech, Provider: tgProvider, PresenceInterval: presenceInterval}
}

func (ch *ChannelService) HandleInbound(ctx context.Context, message dto.InboundMessage) {
	if message.Kind == dto.KindCommand {
		ch.handleCommand(message)
		return
	}
	ch.handleMessage(ctx, message)
}

// handleCommand applies one idempotent session mutation and sends a
// single acknowledgement. No command reaches the remote APIs.
func (ch *ChannelService) handleCommand(message dto.InboundMessage) {
	var ack string

	switch message.Command {
	case "start":
		ch.Sessions.Reset(message.ChatID)
		ack = greetingReply
	case "new":
		ch.Sessions.Reset(message.ChatID)
		ack = newChatReply
	case "text":
		ch.Sessions.SetAudioMode(message.ChatID, false)
		ack = textModeReply
	case "audio":
		ch.Sessions.SetAudioMode(message.ChatID, true)
		ack = audioModeReply
	case "gpt3":
		ch.Sessions.SetModel(message.ChatID, entities.GPT3Model)
		ack = gpt3Reply
	case "gpt4":
		ch.Sessions.SetModel(message.ChatID, entities.GPT4Model)
		ack = gpt4Reply
	case "help":
		ack = helpReply
	default:
		ack = unknownReply
	}

	if err := ch.Provider.ReplyText(message.ChatID, message.MessageID, ack); err != nil {
		ch.Logger.Error(fmt.Sprintf("Failed to acknowledge /%s for chat %d: %v", message.Command, message.ChatID, err))
	}
}

// handleMessage runs the four-way dispatch (text/voice input, text/
// voice reply) under the chat's session lock, with the presence
// indicator ticking for the whole round trip.
func (ch *ChannelService) handleMessage(ctx context.Context, message dto.InboundMessage) {
	ch.Sessions.WithSession(message.ChatID, func(session *entities.Session) {
		presenceKind := provider.PresenceTyping
		if session.AudioReplies {
			presenceKind = provider.PresenceRecordVoice
		}

		emit := func() {
			if err := ch.Provider.SendPresence(message.ChatID, presenceKind); err != nil {
				ch.Logger.Debug(fmt.Sprintf("Failed to send presence signal to chat %d: %v", message.ChatID, err))
			}
		}

		middleware.WithPresence(ctx, ch.PresenceInterval, emit, func() {
			ch.exchange(ctx, message, session)
		})
	})
}

func (ch *ChannelService) exchange(ctx context.Context, message dto.InboundMessage, session *entities.Session) {
	text := message.Text

	if message.Kind == dto.KindVoice {
		audio, err := ch.Provider.DownloadVoice(ctx, message.VoiceFileID)
		if err != nil {
			ch.Logger.Error(fmt.Sprintf("Failed to download voice note for chat %d: %v", message.ChatID, err))
			return
		}
		// An empty transcript is not an error here: the completion
		// service answers it with its empty-message sentinel.
		text, err = ch.Speech.SpeechToText(ctx, audio)
		if err != nil {
			ch.Logger.Error(fmt.Sprintf("Failed to transcribe voice note for chat %d: %v", message.ChatID, err))
			return
		}
	}

	reply, err := ch.Completion.Complete(ctx, text, session)
	if err != nil {
		ch.Logger.Error(fmt.Sprintf("Completion failed for chat %d: %v", message.ChatID, err))
		return
	}

	if !session.AudioReplies {
		if err := ch.Provider.ReplyText(message.ChatID, message.MessageID, reply); err != nil {
			ch.Logger.Error(fmt.Sprintf("Failed to send reply to chat %d: %v", message.ChatID, err))
		}
		return
	}

	audioPath, err := ch.Speech.TextToSpeech(ctx, reply)
	if err != nil {
		ch.Logger.Error(fmt.Sprintf("Failed to synthesize reply for chat %d: %v", message.ChatID, err))
		return
	}
	defer os.Remove(audioPath)

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		ch.Logger.Error(fmt.Sprintf("Failed to read synthesized reply for chat %d: %v", message.ChatID, err))
		return
	}

	if err := ch.Provider.ReplyVoice(message.ChatID, message.MessageID, audio); err != nil {
		ch.Logger.Error(fmt.Sprintf("Failed to send voice reply to chat %d: %v", message.ChatID, err))
	}
}
