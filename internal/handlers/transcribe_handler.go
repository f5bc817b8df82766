package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vocaresume/api/internal/services"
)

type TranscribeHandler struct {
	sessions    services.SessionManager
	transcribe  services.TranscribeService
	maxFileSize int64
}

func NewTranscribeHandler(
	sessions services.SessionManager,
	transcribe services.TranscribeService,
	maxFileSize int64,
) *TranscribeHandler {
	return &TranscribeHandler{
		sessions:    sessions,
		transcribe:  transcribe,
		maxFileSize: maxFileSize,
	}
}

// HandleTranscribe handles POST /sessions/:id/transcribe with a multipart
// "audio" field. Returns the transcript as a query the client can submit to
// /analyze.
func (h *TranscribeHandler) HandleTranscribe(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	if _, ok := h.sessions.Get(sessionID); !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file is required",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file too large",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read audio file",
		})
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read audio file",
		})
	}

	query, err := h.transcribe.Transcribe(c.Context(), audio, file.Filename)
	if err != nil {
		if errors.Is(err, services.ErrTranscriptionUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Transcription is unavailable. Please type your question instead.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to transcribe audio",
		})
	}

	return c.JSON(fiber.Map{
		"query": query,
	})
}
