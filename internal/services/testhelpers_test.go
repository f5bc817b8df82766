package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocaresume/api/internal/models"
	"vocaresume/api/internal/repositories"
)

// fakeEmbedder returns a fixed vector, or fails when broken.
type fakeEmbedder struct {
	vector []float32
	broken bool
	calls  int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.broken {
		return nil, errors.New("embedding backend down")
	}
	return f.vector, nil
}

// fakeIndex serves canned task rankings and records session upserts.
type fakeIndex struct {
	ranking []models.TaskScore
	broken  bool
	upserts []string
}

func (f *fakeIndex) InitCollection(ctx context.Context) error { return nil }

func (f *fakeIndex) SeedTaskAnchors(ctx context.Context, embedder Embedder) error { return nil }

func (f *fakeIndex) SearchTasks(ctx context.Context, queryEmbedding []float32, limit int) ([]models.TaskScore, error) {
	if f.broken {
		return nil, errors.New("vector index down")
	}
	if limit > len(f.ranking) {
		limit = len(f.ranking)
	}
	return f.ranking[:limit], nil
}

func (f *fakeIndex) UpsertSessionText(ctx context.Context, sessionID, docType, text string, embedding []float32) error {
	f.upserts = append(f.upserts, docType+":"+text)
	return nil
}

func (f *fakeIndex) DeleteSession(ctx context.Context, sessionID string) error { return nil }

// fakeGenerator counts invocations and returns canned markdown.
type fakeGenerator struct {
	markdown string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(ctx context.Context, modelID, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.markdown, nil
}

func (f *fakeGenerator) KnownModel(modelID string) bool { return true }

// fakeProvider is one cascade entry with scripted behavior.
type fakeProvider struct {
	name     string
	enabled  bool
	audio    []byte
	err      error
	attempts int
}

func (f *fakeProvider) Name() string   { return f.name }
func (f *fakeProvider) Format() string { return "mp3" }
func (f *fakeProvider) Enabled() bool  { return f.enabled }

func (f *fakeProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.attempts++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

// fakeTranscribeProvider is one speech-to-text cascade entry with scripted
// behavior.
type fakeTranscribeProvider struct {
	name     string
	enabled  bool
	text     string
	err      error
	attempts int
}

func (f *fakeTranscribeProvider) Name() string  { return f.name }
func (f *fakeTranscribeProvider) Enabled() bool { return f.enabled }

func (f *fakeTranscribeProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	f.attempts++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeAnalysisRepo is an in-memory repositories.AnalysisRepository.
type fakeAnalysisRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Analysis
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{items: make(map[uuid.UUID]*models.Analysis)}
}

func (r *fakeAnalysisRepo) Create(analysis *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *analysis
	r.items[analysis.ID] = &copied
	return nil
}

func (r *fakeAnalysisRepo) FindByID(id uuid.UUID) (*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.items[id]
	if !ok {
		return nil, errors.New("analysis not found")
	}
	copied := *analysis
	return &copied, nil
}

func (r *fakeAnalysisRepo) UpdateStage(id uuid.UUID, stage models.PipelineStage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.items[id]
	if !ok {
		return errors.New("analysis not found")
	}
	analysis.Stage = stage
	analysis.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAnalysisRepo) UpdateRouting(id uuid.UUID, routing *models.RoutingResult) error {
	alternatives, err := models.EncodeTaskScores(routing.Alternatives)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.items[id]
	if !ok {
		return errors.New("analysis not found")
	}
	analysis.Stage = models.StageRouted
	analysis.Task = routing.Task
	analysis.Provenance = routing.Provenance
	score := routing.Score
	analysis.RouteScore = &score
	if alternatives != "" {
		analysis.RouteAlternatives = &alternatives
	}
	return nil
}

func (r *fakeAnalysisRepo) UpdateResult(id uuid.UUID, data *repositories.AnalysisUpdateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.items[id]
	if !ok {
		return errors.New("analysis not found")
	}
	analysis.Stage = models.StageDelivered
	analysis.Markdown = data.Markdown
	analysis.SpeechText = data.SpeechText
	analysis.AudioFilename = data.AudioFilename
	analysis.AudioProvider = data.AudioProvider
	analysis.AudioUnavailable = data.AudioUnavailable
	return nil
}

func (r *fakeAnalysisRepo) UpdateError(id uuid.UUID, stage string, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.items[id]
	if !ok {
		return errors.New("analysis not found")
	}
	analysis.Stage = models.StageErrored
	analysis.ErroredStage = &stage
	analysis.ErrorMessage = &message
	return nil
}

func (r *fakeAnalysisRepo) FindPendingJobs(limit int) ([]models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []models.Analysis
	for _, analysis := range r.items {
		if analysis.Stage == models.StageQueued && len(pending) < limit {
			pending = append(pending, *analysis)
		}
	}
	return pending, nil
}
