package ai

import (
	"context"
	"fmt"
	"io"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/trackteam/action-tracker/pkg/config"
)

// Transcriber wraps the official AssemblyAI SDK for audio-to-text
type Transcriber struct {
	client *aai.Client
}

// NewTranscriber creates a transcriber using the provided config. Pass a nil
// config to fall back to environment variables.
func NewTranscriber(cfg *config.AssemblyAIConfig) *Transcriber {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &Transcriber{client: aai.NewClient(apiKey)}
}

// TranscribeAudio uploads the audio stream, waits for the transcript to
// complete, and returns the text with speaker labels enabled.
func (t *Transcriber) TranscribeAudio(ctx context.Context, audio io.Reader) (string, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return "", err
	}

	if transcript.Status == aai.TranscriptStatusError {
		return "", fmt.Errorf("transcription failed: %s", aai.ToString(transcript.Error))
	}
	return aai.ToString(transcript.Text), nil
}
