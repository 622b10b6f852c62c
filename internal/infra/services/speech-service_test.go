package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"assistant-connector/internal/infra/logger"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wavTranscoder stands in for ffmpeg: it ignores the source and writes
// a short valid 16 kHz mono WAV at dst.
type wavTranscoder struct{}

func (wavTranscoder) ToWAV(ctx context.Context, src, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           make([]int, 1600),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// garbageTranscoder writes something that is not a WAV.
type garbageTranscoder struct{}

func (garbageTranscoder) ToWAV(ctx context.Context, src, dst string) error {
	return os.WriteFile(dst, []byte("not audio at all"), 0o600)
}

func newSpeechService(t *testing.T, transcoder ITranscoder, host string) *SpeechService {
	t.Helper()
	log := logger.NewLogger(context.Background(), true)
	return NewSpeechService(log, &http.Client{}, transcoder, host, "test-key")
}

func TestSpeechToTextReturnsTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.NotZero(t, header.Size)

		w.Write([]byte(`{"text":"hola mundo"}`))
	}))
	defer server.Close()

	svc := newSpeechService(t, wavTranscoder{}, server.URL)

	text, err := svc.SpeechToText(context.Background(), []byte("OggS fake voice note"))
	require.NoError(t, err)
	assert.Equal(t, "hola mundo", text)
}

func TestSpeechToTextPropagatesAbsentText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	svc := newSpeechService(t, wavTranscoder{}, server.URL)

	text, err := svc.SpeechToText(context.Background(), []byte("OggS fake voice note"))
	require.NoError(t, err, "a missing text field is not a fault")
	assert.Empty(t, text)
}

func TestSpeechToTextRejectsBrokenTranscode(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	svc := newSpeechService(t, garbageTranscoder{}, server.URL)

	_, err := svc.SpeechToText(context.Background(), []byte("OggS fake voice note"))
	require.Error(t, err)
	assert.Zero(t, calls, "invalid WAV output must never reach the API")
}

func TestTextToSpeechProducesReadableFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.URL.Query().Get("tl"))
		w.Write([]byte("ID3 fake mp3 payload"))
	}))
	defer server.Close()

	svc := newSpeechService(t, wavTranscoder{}, server.URL)
	svc.SynthesisURL = server.URL

	path, err := svc.TextToSpeech(context.Background(), "Hello, how are you today?")
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTextToSpeechFailsOnEmptySynthesisBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newSpeechService(t, wavTranscoder{}, server.URL)
	svc.SynthesisURL = server.URL

	_, err := svc.TextToSpeech(context.Background(), "Hello")
	require.Error(t, err)
}

func TestDetectLanguageFollowsReplyText(t *testing.T) {
	svc := newSpeechService(t, wavTranscoder{}, "http://unused")

	assert.Equal(t, "en", svc.detectLanguage("Hello, how are you doing today? The weather is lovely."))
	assert.Equal(t, "es", svc.detectLanguage("Hola, ¿cómo estás hoy? Hace un tiempo estupendo."))
}
