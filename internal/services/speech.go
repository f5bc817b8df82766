package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"vocaresume/api/internal/models"
)

// ErrSynthesisUnavailable means every provider in the cascade failed or was
// disabled; the caller should signal client-side browser synthesis instead.
var ErrSynthesisUnavailable = errors.New("all speech providers failed")

// SpeechProvider is one interchangeable synthesis backend in the cascade.
type SpeechProvider interface {
	Name() string
	Enabled() bool
	Format() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechService runs the provider cascade and persists the winning output as
// an artifact.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) (*models.SpeechArtifact, error)
}

type speechService struct {
	providers []SpeechProvider
	store     ArtifactStore
}

// NewSpeechService builds the cascade. Providers are attempted strictly in
// the order given; the first success wins and no output is mixed across
// providers.
func NewSpeechService(store ArtifactStore, providers ...SpeechProvider) SpeechService {
	return &speechService{
		providers: providers,
		store:     store,
	}
}

// Synthesize implements SpeechService.
func (s *speechService) Synthesize(ctx context.Context, text string) (*models.SpeechArtifact, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrSynthesisUnavailable
	}

	for _, provider := range s.providers {
		if !provider.Enabled() {
			log.Printf("🔇 Speech provider %s skipped (disabled)\n", provider.Name())
			continue
		}

		audio, err := provider.Synthesize(ctx, text)
		if err != nil {
			log.Printf("⚠️ Speech provider %s failed: %v\n", provider.Name(), err)
			continue
		}

		if len(audio) == 0 {
			log.Printf("⚠️ Speech provider %s returned empty audio\n", provider.Name())
			continue
		}

		artifact, err := s.store.Write(audio, provider.Name(), provider.Format())
		if err != nil {
			log.Printf("⚠️ Failed to persist audio from %s: %v\n", provider.Name(), err)
			continue
		}

		artifact.Duration = estimateSpeechDuration(text)
		log.Printf("🔊 Synthesized %s via %s (%d bytes)\n", artifact.Filename, provider.Name(), len(audio))
		return artifact, nil
	}

	return nil, ErrSynthesisUnavailable
}

func estimateSpeechDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	return time.Duration(float64(words) / wordsPerSecond * float64(time.Second))
}
