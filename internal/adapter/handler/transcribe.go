package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trackteam/action-tracker/errors"
	"github.com/trackteam/action-tracker/pkg/ai"
)

// allowedAudioExtensions lists the upload types the transcription service
// accepts.
var allowedAudioExtensions = map[string]bool{
	".mp3":  true,
	".mp4":  true,
	".mpeg": true,
	".mpga": true,
	".m4a":  true,
	".wav":  true,
	".webm": true,
}

// Transcribe handles audio-to-text HTTP requests
type Transcribe struct {
	transcriber *ai.Transcriber
	logger      *zap.Logger
}

// NewTranscribe creates a new transcription handler. transcriber may be nil
// when no transcription key is configured.
func NewTranscribe(transcriber *ai.Transcriber, logger *zap.Logger) *Transcribe {
	return &Transcribe{
		transcriber: transcriber,
		logger:      logger,
	}
}

// Audio transcribes an uploaded audio file
// POST /v1/transcribe
func (h *Transcribe) Audio(c echo.Context) error {
	ctx := c.Request().Context()

	if h.transcriber == nil {
		return HandleError(h.logger, c, errors.AppError{
			HTTPCode: http.StatusServiceUnavailable,
			Code:     errors.ErrorCode_TRANSCRIPTION_FAILED,
			Message:  "Audio transcription not available. Set ASSEMBLYAI_API_KEY.",
		})
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("no audio file provided"))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAudioExtensions[ext] {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("unsupported file type"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("could not read audio file"))
	}
	defer src.Close()

	transcript, err := h.transcriber.TranscribeAudio(ctx, src)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrTranscriptionFailed(err))
	}

	return HandleSuccess(h.logger, c, map[string]string{
		"transcript": transcript,
	})
}
