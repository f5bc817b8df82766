package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vocaresume/api/internal/models"
	"vocaresume/api/internal/repositories"
)

type ResultHandler struct {
	analysisRepo repositories.AnalysisRepository
}

func NewResultHandler(analysisRepo repositories.AnalysisRepository) *ResultHandler {
	return &ResultHandler{
		analysisRepo: analysisRepo,
	}
}

func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	response := models.ResultResponse{
		ID:    analysis.ID.String(),
		Stage: string(analysis.Stage),
	}

	if analysis.Task != "" {
		routing := &models.RoutingResult{
			Task:       analysis.Task,
			Provenance: analysis.Provenance,
		}
		if analysis.RouteScore != nil {
			routing.Score = *analysis.RouteScore
		}
		if analysis.RouteAlternatives != nil {
			alternatives, err := models.DecodeTaskScores(*analysis.RouteAlternatives)
			if err != nil {
				log.Printf("⚠️ Failed to decode routing alternatives for %s: %v\n", analysis.ID, err)
			} else {
				routing.Alternatives = alternatives
			}
		}
		response.Routing = routing
	}

	if analysis.Stage == models.StageDelivered {
		data := &models.AnalysisData{
			AudioUnavailable: analysis.AudioUnavailable,
		}
		if analysis.Markdown != nil {
			data.Markdown = *analysis.Markdown
		}
		if analysis.SpeechText != nil {
			data.SpeechText = *analysis.SpeechText
		}
		if analysis.AudioFilename != nil {
			audioURL := fmt.Sprintf("/api/v1/audio/%s", *analysis.AudioFilename)
			data.AudioURL = &audioURL
			data.AudioProvider = analysis.AudioProvider
		}
		response.Result = data
	}

	if analysis.Stage == models.StageErrored {
		response.ErroredStage = analysis.ErroredStage
		response.ErrorMessage = analysis.ErrorMessage
	}

	return c.JSON(response)
}
