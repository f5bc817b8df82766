package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vocaresume/api/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindByID(id uuid.UUID) (*models.Analysis, error)
	UpdateStage(id uuid.UUID, stage models.PipelineStage) error
	UpdateRouting(id uuid.UUID, result *models.RoutingResult) error
	UpdateResult(id uuid.UUID, data *AnalysisUpdateData) error
	UpdateError(id uuid.UUID, stage string, message string) error
	FindPendingJobs(limit int) ([]models.Analysis, error)
}

type AnalysisUpdateData struct {
	Markdown         *string
	SpeechText       *string
	AudioFilename    *string
	AudioProvider    *string
	AudioUnavailable bool
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("analysis not found")
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) UpdateStage(id uuid.UUID, stage models.PipelineStage) error {
	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stage":      stage,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update stage: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}

	return nil
}

func (r *analysisRepository) UpdateRouting(id uuid.UUID, routing *models.RoutingResult) error {
	alternatives, err := models.EncodeTaskScores(routing.Alternatives)
	if err != nil {
		return fmt.Errorf("failed to encode routing alternatives: %w", err)
	}

	updates := map[string]interface{}{
		"stage":       models.StageRouted,
		"task":        routing.Task,
		"provenance":  routing.Provenance,
		"route_score": routing.Score,
		"updated_at":  time.Now(),
	}
	if alternatives != "" {
		updates["route_alternatives"] = alternatives
	}

	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update routing: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}

	return nil
}

func (r *analysisRepository) UpdateResult(id uuid.UUID, data *AnalysisUpdateData) error {
	updates := map[string]interface{}{
		"stage":             models.StageDelivered,
		"audio_unavailable": data.AudioUnavailable,
		"updated_at":        time.Now(),
	}

	if data.Markdown != nil {
		updates["markdown"] = *data.Markdown
	}
	if data.SpeechText != nil {
		updates["speech_text"] = *data.SpeechText
	}
	if data.AudioFilename != nil {
		updates["audio_filename"] = *data.AudioFilename
	}
	if data.AudioProvider != nil {
		updates["audio_provider"] = *data.AudioProvider
	}

	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}

	return nil
}

func (r *analysisRepository) UpdateError(id uuid.UUID, stage string, message string) error {
	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stage":         models.StageErrored,
			"errored_stage": stage,
			"error_message": message,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}

	return nil
}

func (r *analysisRepository) FindPendingJobs(limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.
		Where("stage = ?", models.StageQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}
