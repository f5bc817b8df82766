package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocaresume/api/internal/models"
)

type pipelineFixture struct {
	repo      *fakeAnalysisRepo
	sessions  SessionManager
	session   *Session
	generator *fakeGenerator
	provider  *fakeProvider
	pipeline  PipelineService
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	repo := newFakeAnalysisRepo()
	sessions := NewSessionManager(20)
	session := sessions.Create()
	session.Corpus.SetResume("Five years of Go backend development at scale.")
	session.Corpus.SetJobDesc("Senior backend engineer, Go, Postgres, Kubernetes.")

	generator := &fakeGenerator{markdown: "## ⭐ JOB FIT ASSESSMENT REPORT\n\n**Job Fit Score: 82/100**\n\n- Strong Go background"}
	provider := &fakeProvider{name: "neural", enabled: true, audio: []byte("mp3-bytes")}

	pipeline := NewPipelineService(
		repo,
		sessions,
		NewTaskRouter(nil, nil, 3),
		generator,
		NewSanitizerService(0),
		NewSpeechService(NewArtifactStore(t.TempDir(), time.Hour), provider),
	)

	return &pipelineFixture{
		repo:      repo,
		sessions:  sessions,
		session:   session,
		generator: generator,
		provider:  provider,
		pipeline:  pipeline,
	}
}

func (f *pipelineFixture) enqueue(t *testing.T, query string) uuid.UUID {
	t.Helper()

	analysis := &models.Analysis{
		ID:        uuid.New(),
		SessionID: f.session.ID,
		Query:     query,
		Model:     "gemini-2.5-flash",
		Stage:     models.StageQueued,
	}
	require.NoError(t, f.repo.Create(analysis))
	return analysis.ID
}

func TestRunAnalysis_EndToEnd(t *testing.T) {
	f := newPipelineFixture(t)
	id := f.enqueue(t, "What are my chances? Give me a fit score.")

	err := f.pipeline.RunAnalysis(context.Background(), id)
	require.NoError(t, err)

	analysis, err := f.repo.FindByID(id)
	require.NoError(t, err)

	assert.Equal(t, models.StageDelivered, analysis.Stage)
	assert.Equal(t, models.TaskJobFit, analysis.Task)
	assert.Equal(t, models.ProvenanceKeyword, analysis.Provenance)

	require.NotNil(t, analysis.Markdown)
	assert.Contains(t, *analysis.Markdown, "82/100")

	require.NotNil(t, analysis.SpeechText)
	assert.NotContains(t, *analysis.SpeechText, "#")
	assert.NotContains(t, *analysis.SpeechText, "**")

	require.NotNil(t, analysis.AudioFilename)
	assert.Equal(t, "neural", *analysis.AudioProvider)
	assert.False(t, analysis.AudioUnavailable)
}

func TestRunAnalysis_VectorRoutingPersistsAlternatives(t *testing.T) {
	repo := newFakeAnalysisRepo()
	sessions := NewSessionManager(20)
	session := sessions.Create()
	session.Corpus.SetResume("Five years of Go backend development.")
	session.Corpus.SetJobDesc("Senior backend engineer, Go and Postgres.")

	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	index := &fakeIndex{ranking: []models.TaskScore{
		{Task: models.TaskJobFit, Score: 0.91},
		{Task: models.TaskAnalysis, Score: 0.42},
		{Task: models.TaskInterview, Score: 0.17},
	}}
	provider := &fakeProvider{name: "neural", enabled: true, audio: []byte("mp3-bytes")}

	pipeline := NewPipelineService(
		repo,
		sessions,
		NewTaskRouter(embedder, index, 3),
		&fakeGenerator{markdown: "## Report\nLooks good."},
		NewSanitizerService(0),
		NewSpeechService(NewArtifactStore(t.TempDir(), time.Hour), provider),
	)

	analysis := &models.Analysis{
		ID:        uuid.New(),
		SessionID: session.ID,
		Query:     "Am I a good candidate for this role?",
		Model:     "gemini-2.5-flash",
		Stage:     models.StageQueued,
	}
	require.NoError(t, repo.Create(analysis))
	require.NoError(t, pipeline.RunAnalysis(context.Background(), analysis.ID))

	stored, err := repo.FindByID(analysis.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TaskJobFit, stored.Task)
	assert.Equal(t, models.ProvenanceVector, stored.Provenance)

	require.NotNil(t, stored.RouteAlternatives)
	alternatives, err := models.DecodeTaskScores(*stored.RouteAlternatives)
	require.NoError(t, err)
	require.Len(t, alternatives, 2)
	assert.Equal(t, models.TaskAnalysis, alternatives[0].Task)
	assert.InDelta(t, 0.42, float64(alternatives[0].Score), 0.001)
	assert.Equal(t, models.TaskInterview, alternatives[1].Task)
}

func TestRunAnalysis_AudioFailureStillDelivers(t *testing.T) {
	f := newPipelineFixture(t)
	f.provider.err = errors.New("sidecar down")
	id := f.enqueue(t, "What interview questions should I prepare for?")

	err := f.pipeline.RunAnalysis(context.Background(), id)
	require.NoError(t, err)

	analysis, err := f.repo.FindByID(id)
	require.NoError(t, err)

	assert.Equal(t, models.StageDelivered, analysis.Stage)
	assert.True(t, analysis.AudioUnavailable)
	assert.Nil(t, analysis.AudioFilename)
	require.NotNil(t, analysis.Markdown)
	assert.NotEmpty(t, *analysis.Markdown)
}

func TestRunAnalysis_MissingInputsFailsBeforeGeneration(t *testing.T) {
	f := newPipelineFixture(t)
	f.session.Corpus.Reset()
	id := f.enqueue(t, "How do I improve my resume?")

	err := f.pipeline.RunAnalysis(context.Background(), id)
	require.Error(t, err)

	analysis, findErr := f.repo.FindByID(id)
	require.NoError(t, findErr)

	assert.Equal(t, models.StageErrored, analysis.Stage)
	require.NotNil(t, analysis.ErroredStage)
	assert.Equal(t, "ingest", *analysis.ErroredStage)
	require.NotNil(t, analysis.ErrorMessage)
	assert.NotEmpty(t, *analysis.ErrorMessage)

	assert.Equal(t, 0, f.generator.calls)
	assert.Equal(t, 0, f.session.Cache.Len())
}

func TestRunAnalysis_UnknownSession(t *testing.T) {
	f := newPipelineFixture(t)

	analysis := &models.Analysis{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		Query:     "anything",
		Model:     "gemini-2.5-flash",
		Stage:     models.StageQueued,
	}
	require.NoError(t, f.repo.Create(analysis))

	err := f.pipeline.RunAnalysis(context.Background(), analysis.ID)
	require.Error(t, err)

	stored, findErr := f.repo.FindByID(analysis.ID)
	require.NoError(t, findErr)
	assert.Equal(t, models.StageErrored, stored.Stage)
}

func TestRunAnalysis_GenerationFailureReportsStage(t *testing.T) {
	f := newPipelineFixture(t)
	f.generator.err = errors.New("provider exploded")
	id := f.enqueue(t, "Give me a fit score.")

	err := f.pipeline.RunAnalysis(context.Background(), id)
	require.Error(t, err)

	analysis, findErr := f.repo.FindByID(id)
	require.NoError(t, findErr)

	assert.Equal(t, models.StageErrored, analysis.Stage)
	require.NotNil(t, analysis.ErroredStage)
	assert.Equal(t, "generate", *analysis.ErroredStage)

	// The raw provider error never reaches the stored message.
	require.NotNil(t, analysis.ErrorMessage)
	assert.NotContains(t, *analysis.ErrorMessage, "exploded")
}

func TestRunAnalysis_RepeatedQueryHitsCache(t *testing.T) {
	f := newPipelineFixture(t)

	first := f.enqueue(t, "Give me a fit score.")
	require.NoError(t, f.pipeline.RunAnalysis(context.Background(), first))

	second := f.enqueue(t, "What is my fit score for this role?")
	require.NoError(t, f.pipeline.RunAnalysis(context.Background(), second))

	assert.Equal(t, 1, f.generator.calls)
}

func TestRunAnalysis_NewUploadInvalidatesCache(t *testing.T) {
	f := newPipelineFixture(t)

	first := f.enqueue(t, "Give me a fit score.")
	require.NoError(t, f.pipeline.RunAnalysis(context.Background(), first))
	assert.Equal(t, 1, f.generator.calls)

	f.session.Corpus.SetResume("A completely rewritten resume with new content.")

	second := f.enqueue(t, "Give me a fit score.")
	require.NoError(t, f.pipeline.RunAnalysis(context.Background(), second))

	assert.Equal(t, 2, f.generator.calls)
}

func TestRunAnalysis_DifferentTasksComputeSeparately(t *testing.T) {
	f := newPipelineFixture(t)

	fit := f.enqueue(t, "Give me a fit score.")
	require.NoError(t, f.pipeline.RunAnalysis(context.Background(), fit))

	interview := f.enqueue(t, "What interview questions should I prepare?")
	require.NoError(t, f.pipeline.RunAnalysis(context.Background(), interview))

	assert.Equal(t, 2, f.generator.calls)
	assert.Equal(t, 2, f.session.Cache.Len())
}
