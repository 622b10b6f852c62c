package services

import "context"

// ISpeechService converts between voice audio and text. SpeechToText
// returns an empty string when the transcription API decodes nothing.
// TextToSpeech returns the path of a temporary audio file the caller
// must remove.
type ISpeechService interface {
	SpeechToText(ctx context.Context, audio []byte) (string, error)
	TextToSpeech(ctx context.Context, text string) (string, error)
}
