package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"vocaresume/api/internal/models"
	"vocaresume/api/internal/repositories"
	"vocaresume/api/internal/services"
)

type UploadHandler struct {
	sessions    services.SessionManager
	docRepo     repositories.DocumentRepository
	storage     services.StorageService
	ingest      services.IngestService
	maxFileSize int64
}

func NewUploadHandler(
	sessions services.SessionManager,
	docRepo repositories.DocumentRepository,
	storage services.StorageService,
	ingest services.IngestService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		sessions:    sessions,
		docRepo:     docRepo,
		storage:     storage,
		ingest:      ingest,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /sessions/:id/upload with multipart fields
// "resume" and/or "job_description".
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID format",
		})
	}

	session, ok := h.sessions.Get(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	fields := map[string]models.DocumentType{
		"resume":          models.DocTypeResume,
		"job_description": models.DocTypeJobDesc,
	}

	var responses []models.UploadResponse

	for field, docType := range fields {
		files, exists := form.File[field]
		if !exists || len(files) == 0 {
			continue
		}

		file := files[0]

		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("%s file too large. Max size: %d bytes", field, h.maxFileSize),
			})
		}

		filename, filePath, err := h.storage.SaveFile(file, string(docType))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s file: %v", field, err),
			})
		}

		if _, err := h.ingest.IngestDocument(c.Context(), session, docType, filePath); err != nil {
			h.storage.DeleteFile(filename)
			if errors.Is(err, services.ErrNoTextContent) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"error": fmt.Sprintf("The uploaded %s appears empty or corrupt. Please upload a readable PDF.", field),
				})
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to process %s file", field),
			})
		}

		doc := models.Document{
			ID:               uuid.New(),
			SessionID:        sessionID,
			Filename:         filename,
			OriginalFileName: file.Filename,
			DocType:          docType,
			FilePath:         filePath,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}

		if err := h.docRepo.Create(&doc); err != nil {
			// Cleanup uploaded file if database insert fails
			h.storage.DeleteFile(filename)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s document record", field),
			})
		}

		responses = append(responses, models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			DocType:      string(doc.DocType),
		})
	}

	if len(responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid files uploaded. Please upload 'resume' and/or 'job_description' as PDF files.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}
