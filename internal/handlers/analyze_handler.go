package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vocaresume/api/internal/models"
	"vocaresume/api/internal/repositories"
	"vocaresume/api/internal/services"
)

type AnalyzeHandler struct {
	sessions     services.SessionManager
	analysisRepo repositories.AnalysisRepository
	generator    services.TextGenerator
	worker       services.Worker
}

func NewAnalyzeHandler(
	sessions services.SessionManager,
	analysisRepo repositories.AnalysisRepository,
	generator services.TextGenerator,
	worker services.Worker,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		sessions:     sessions,
		analysisRepo: analysisRepo,
		generator:    generator,
		worker:       worker,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	if req.Model == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "model is required",
		})
	}

	if !h.generator.KnownModel(req.Model) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown model identifier",
		})
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session_id format",
		})
	}

	session, ok := h.sessions.Get(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	// Reject before queueing when the session has no usable inputs; the
	// pipeline enforces the same gate for queued jobs.
	if session.Corpus.ResumeText() == "" || session.Corpus.JobDescText() == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Upload a resume and job description before requesting analysis",
		})
	}

	analysis := &models.Analysis{
		ID:        uuid.New(),
		SessionID: sessionID,
		Query:     req.Query,
		Model:     req.Model,
		Stage:     models.StageQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.analysisRepo.Create(analysis); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create analysis job",
		})
	}

	h.worker.EnqueueJob(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:    analysis.ID.String(),
		Stage: string(models.StageQueued),
	})
}
