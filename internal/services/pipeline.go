package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"vocaresume/api/internal/models"
	"vocaresume/api/internal/repositories"
)

// PipelineService sequences one analysis request through
// ingest → route → generate → sanitize → synthesize → deliver, applying
// fail-soft degradation at each stage. No stage is allowed to crash the
// session: panics and unexpected errors are mapped to an errored stage with
// a user-facing message.
type PipelineService interface {
	RunAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

type pipelineService struct {
	analysisRepo  repositories.AnalysisRepository
	sessions      SessionManager
	router        TaskRouter
	generator     TextGenerator
	sanitizer     SanitizerService
	speech        SpeechService
	promptBuilder *PromptBuilder
}

func NewPipelineService(
	analysisRepo repositories.AnalysisRepository,
	sessions SessionManager,
	router TaskRouter,
	generator TextGenerator,
	sanitizer SanitizerService,
	speech SpeechService,
) PipelineService {
	return &pipelineService{
		analysisRepo:  analysisRepo,
		sessions:      sessions,
		router:        router,
		generator:     generator,
		sanitizer:     sanitizer,
		speech:        speech,
		promptBuilder: NewPromptBuilder(),
	}
}

// Stage-specific user-facing messages. Raw provider errors never reach the
// caller.
var stageMessages = map[string]string{
	"ingest":     "Resume and job description are required before analysis.",
	"route":      "Could not determine what to analyze. Please rephrase your question.",
	"generate":   "Analysis generation failed. Please try again.",
	"sanitize":   "Could not prepare the analysis for narration.",
	"synthesize": "Audio narration is unavailable for this analysis.",
}

// RunAnalysis implements PipelineService.
func (p *pipelineService) RunAnalysis(ctx context.Context, analysisID uuid.UUID) (err error) {
	stage := "ingest"

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Pipeline panic at stage %s for %s: %v\n", stage, analysisID, r)
			p.failStage(analysisID, stage)
			err = fmt.Errorf("pipeline panic at stage %s: %v", stage, r)
		}
	}()

	analysis, err := p.analysisRepo.FindByID(analysisID)
	if err != nil {
		return fmt.Errorf("failed to load analysis: %w", err)
	}

	log.Printf("🔄 Starting pipeline for analysis %s\n", analysisID)

	session, ok := p.sessions.Get(analysis.SessionID)
	if !ok {
		p.failStage(analysisID, "ingest")
		return fmt.Errorf("session %s not found", analysis.SessionID)
	}

	// Ingest gate: both inputs must be present before anything runs.
	resumeText := session.Corpus.ResumeText()
	jobDescText := session.Corpus.JobDescText()
	if resumeText == "" || jobDescText == "" {
		p.failStage(analysisID, "ingest")
		return fmt.Errorf("analysis %s rejected: missing resume or job description", analysisID)
	}

	if err := p.analysisRepo.UpdateStage(analysisID, models.StageIngested); err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}

	// Route. The router never fails past its boundary.
	stage = "route"
	routing := p.router.Route(ctx, analysis.Query, session.Corpus)
	log.Printf("🧭 Routed analysis %s to %s (%s, score %.3f)\n",
		analysisID, routing.Task, routing.Provenance, routing.Score)

	if err := p.analysisRepo.UpdateRouting(analysisID, routing); err != nil {
		return fmt.Errorf("failed to save routing: %w", err)
	}

	// Generate, memoized per (task, model) until the inputs change.
	stage = "generate"
	key := CacheKey{Task: routing.Task, Model: analysis.Model}
	markdown, err := session.Cache.GetOrCompute(key, session.Corpus.Fingerprint(), func() (string, error) {
		prompt := p.promptBuilder.BuildTaskPrompt(
			routing.Task,
			resumeText,
			jobDescText,
			FormatCorpusContext(session.Corpus.QueryHistory()),
		)
		return p.generator.Generate(ctx, analysis.Model, prompt)
	})
	if err != nil {
		p.failStage(analysisID, "generate")
		return fmt.Errorf("generation failed for analysis %s: %w", analysisID, err)
	}

	if err := p.analysisRepo.UpdateStage(analysisID, models.StageGenerated); err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}

	// Sanitize is total: degraded stripping is non-fatal and only logged.
	stage = "sanitize"
	speechText := p.sanitizer.NormalizeForSpeech(markdown)
	if speechText == "" && markdown != "" {
		log.Printf("⚠️ Sanitization degraded for analysis %s, stripping to plain text\n", analysisID)
		speechText = p.sanitizer.StripToPlain(markdown)
	}

	if err := p.analysisRepo.UpdateStage(analysisID, models.StageSanitized); err != nil {
		return fmt.Errorf("failed to update stage: %w", err)
	}

	// Synthesize. Audio failure never blocks delivery of the analysis text.
	stage = "synthesize"
	update := &repositories.AnalysisUpdateData{
		Markdown:   &markdown,
		SpeechText: &speechText,
	}

	artifact, synthErr := p.speech.Synthesize(ctx, speechText)
	if synthErr != nil {
		log.Printf("🔇 Audio unavailable for analysis %s: %v\n", analysisID, synthErr)
		update.AudioUnavailable = true
	} else {
		update.AudioFilename = &artifact.Filename
		update.AudioProvider = &artifact.Provider
		if err := p.analysisRepo.UpdateStage(analysisID, models.StageSynthesized); err != nil {
			return fmt.Errorf("failed to update stage: %w", err)
		}
	}

	stage = "deliver"
	if err := p.analysisRepo.UpdateResult(analysisID, update); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Pipeline completed for analysis %s\n", analysisID)
	return nil
}

func (p *pipelineService) failStage(analysisID uuid.UUID, stage string) {
	message, ok := stageMessages[stage]
	if !ok {
		message = "Something went wrong processing this analysis."
	}

	if err := p.analysisRepo.UpdateError(analysisID, stage, message); err != nil {
		log.Printf("❌ Failed to record error for analysis %s: %v\n", analysisID, err)
	}
}
