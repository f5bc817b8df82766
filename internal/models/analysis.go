package models

import (
	"time"

	"github.com/google/uuid"
)

// PipelineStage tracks how far a single analysis request has progressed.
// The happy path is ingested → routed → generated → sanitized → synthesized
// → delivered; errored carries the stage that failed in ErroredStage.
type PipelineStage string

const (
	StageQueued      PipelineStage = "queued"
	StageIngested    PipelineStage = "ingested"
	StageRouted      PipelineStage = "routed"
	StageGenerated   PipelineStage = "generated"
	StageSanitized   PipelineStage = "sanitized"
	StageSynthesized PipelineStage = "synthesized"
	StageDelivered   PipelineStage = "delivered"
	StageErrored     PipelineStage = "errored"
)

type Analysis struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID         uuid.UUID       `gorm:"type:uuid;index;not null" json:"session_id"`
	Query             string          `gorm:"type:text" json:"query"`
	Model             string          `gorm:"type:text;not null" json:"model"`
	Stage             PipelineStage   `gorm:"not null;default:'queued'" json:"stage"`
	Task              TaskLabel       `gorm:"type:text" json:"task,omitempty"`
	Provenance        RouteProvenance `gorm:"type:text" json:"provenance,omitempty"`
	RouteScore        *float32        `gorm:"type:decimal(5,4)" json:"route_score,omitempty"`
	RouteAlternatives *string         `gorm:"type:text" json:"route_alternatives,omitempty"`
	Markdown          *string         `gorm:"type:text" json:"markdown,omitempty"`
	SpeechText        *string         `gorm:"type:text" json:"speech_text,omitempty"`
	AudioFilename     *string         `gorm:"type:text" json:"audio_filename,omitempty"`
	AudioProvider     *string         `gorm:"type:text" json:"audio_provider,omitempty"`
	AudioUnavailable  bool            `gorm:"default:false" json:"audio_unavailable"`
	ErroredStage      *string         `gorm:"type:text" json:"errored_stage,omitempty"`
	ErrorMessage      *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// SpeechArtifact describes one synthesized audio file on disk.
type SpeechArtifact struct {
	Filename  string        `json:"filename"`
	Path      string        `json:"-"`
	Provider  string        `json:"provider"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration_estimate"`
}
