package client

import (
	"context"
	"fmt"
	"os/exec"
)

// Transcoder shells out to ffmpeg to rewrite compressed voice notes
// into the linear PCM WAV the transcription API expects.
type Transcoder struct {
	Binary string
}

func NewTranscoder() *Transcoder {
	return &Transcoder{Binary: "ffmpeg"}
}

// ToWAV converts src into a 16 kHz mono pcm_s16le WAV at dst.
func (t *Transcoder) ToWAV(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, t.Binary, "-i", src, "-y", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", dst)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w, output: %s", err, string(output))
	}
	return nil
}
