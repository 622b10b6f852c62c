package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"assistant-connector/internal/domain/dto"
	"assistant-connector/internal/infra/logger"

	"github.com/go-audio/wav"
	"github.com/pemistahl/lingua-go"
)

const (
	whisperModel        = "whisper-1"
	defaultSpeechLang   = "es"
	defaultSynthesisURL = "https://translate.google.com/translate_tts"
)

// ITranscoder rewrites a compressed voice note into PCM WAV.
type ITranscoder interface {
	ToWAV(ctx context.Context, src, dst string) error
}

// SpeechService bridges voice audio and text: inbound voice notes are
// transcoded and transcribed, outbound replies are synthesized into a
// temporary audio file. The temporary file is the caller's to remove.
type SpeechService struct {
	Logger       *logger.Logger
	HttpClient   *http.Client
	Transcoder   ITranscoder
	Host         string
	APIKey       string
	SynthesisURL string

	detector lingua.LanguageDetector
}

func NewSpeechService(log *logger.Logger, httpClient *http.Client, transcoder ITranscoder, host, apiKey string) *SpeechService {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Italian,
			lingua.Portuguese,
			lingua.Russian,
		).
		Build()

	return &SpeechService{
		Logger:       log,
		HttpClient:   httpClient,
		Transcoder:   transcoder,
		Host:         host,
		APIKey:       apiKey,
		SynthesisURL: defaultSynthesisURL,
		detector:     detector,
	}
}

// SpeechToText transcribes a voice note. An API response without a
// text field yields an empty transcript and no error: downstream the
// completion service answers it with its empty-message sentinel.
func (sp *SpeechService) SpeechToText(ctx context.Context, audio []byte) (string, error) {
	oggPath, err := writeTempFile(audio, "voice-*.oga")
	if err != nil {
		return "", err
	}
	defer os.Remove(oggPath)

	wavPath := strings.TrimSuffix(oggPath, filepath.Ext(oggPath)) + ".wav"
	if err := sp.Transcoder.ToWAV(ctx, oggPath, wavPath); err != nil {
		sp.Logger.Error(fmt.Sprintf("Failed to transcode voice note: %v", err))
		return "", err
	}
	defer os.Remove(wavPath)

	if err := probeWAV(wavPath); err != nil {
		sp.Logger.Error(fmt.Sprintf("Transcoded file is not a usable WAV: %v", err))
		return "", err
	}

	return sp.transcribe(ctx, wavPath)
}

func (sp *SpeechService) transcribe(ctx context.Context, wavPath string) (string, error) {
	file, err := os.Open(wavPath)
	if err != nil {
		return "", fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer file.Close()

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fileWriter, file); err != nil {
		return "", fmt.Errorf("failed to copy file into form: %w", err)
	}
	if err := writer.WriteField("model", whisperModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v1/audio/transcriptions", sp.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, &requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", sp.APIKey))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := sp.HttpClient.Do(req)
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Transcription request failed: %v", err))
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		sp.Logger.Error(fmt.Sprintf("Transcription API returned %s, response_body %s", res.Status, string(body)))
		return "", fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}

	var response dto.TranscriptionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal transcription response: %w", err)
	}

	if response.Text == nil {
		sp.Logger.Warn("Transcription API returned no text field")
		return "", nil
	}
	return *response.Text, nil
}

// TextToSpeech synthesizes text into a temporary audio file and
// returns its path. The spoken language follows detection of the text
// itself, falling back to Spanish when detection is unsure.
func (sp *SpeechService) TextToSpeech(ctx context.Context, text string) (string, error) {
	lang := sp.detectLanguage(text)

	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", sp.SynthesisURL, query.Encode()), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create synthesis request: %w", err)
	}

	res, err := sp.HttpClient.Do(req)
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Synthesis request failed: %v", err))
		return "", fmt.Errorf("synthesis request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		sp.Logger.Error(fmt.Sprintf("Synthesis API returned %s, response_body %s", res.Status, string(body)))
		return "", fmt.Errorf("unexpected HTTP status: %s", res.Status)
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read synthesis response: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("synthesis API returned an empty body")
	}

	return writeTempFile(audio, "reply-*.mp3")
}

func (sp *SpeechService) detectLanguage(text string) string {
	language, ok := sp.detector.DetectLanguageOf(text)
	if !ok {
		return defaultSpeechLang
	}
	return strings.ToLower(language.IsoCode639_1().String())
}

func writeTempFile(data []byte, pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return f.Name(), nil
}

// probeWAV rejects transcoder output that is not a valid, non-empty
// WAV before it is shipped to the transcription API.
func probeWAV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return fmt.Errorf("invalid WAV file: %s", path)
	}
	duration, err := decoder.Duration()
	if err != nil {
		return fmt.Errorf("failed to read WAV duration: %w", err)
	}
	if duration <= 0 {
		return fmt.Errorf("WAV file contains no audio: %s", path)
	}
	return nil
}
