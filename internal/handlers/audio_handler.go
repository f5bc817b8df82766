package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vocaresume/api/internal/services"
)

type AudioHandler struct {
	artifacts services.ArtifactStore
}

func NewAudioHandler(artifacts services.ArtifactStore) *AudioHandler {
	return &AudioHandler{
		artifacts: artifacts,
	}
}

// HandleGetAudio handles GET /audio/:name
func (h *AudioHandler) HandleGetAudio(c *fiber.Ctx) error {
	path, err := h.artifacts.Resolve(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Audio artifact not found",
		})
	}

	return c.SendFile(path)
}
