package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vocaresume/api/internal/models"
	"vocaresume/api/internal/repositories"
	"vocaresume/api/internal/services"
)

type SessionHandler struct {
	sessions services.SessionManager
	docRepo  repositories.DocumentRepository
	index    services.VectorIndexService
}

func NewSessionHandler(
	sessions services.SessionManager,
	docRepo repositories.DocumentRepository,
	index services.VectorIndexService,
) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		docRepo:  docRepo,
		index:    index,
	}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	session := h.sessions.Create()

	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{
		ID: session.ID.String(),
	})
}

// HandleDelete handles DELETE /sessions/:id, the explicit session reset.
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
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

	h.sessions.Delete(sessionID)

	if err := h.docRepo.DeleteBySession(sessionID); err != nil {
		log.Printf("⚠️ Failed to delete session documents: %v\n", err)
	}

	if h.index != nil {
		if err := h.index.DeleteSession(c.Context(), sessionID.String()); err != nil {
			log.Printf("⚠️ Failed to delete session vectors: %v\n", err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
