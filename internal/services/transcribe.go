package services

import (
	"context"
	"errors"
	"log"
	"strings"
)

// ErrTranscriptionUnavailable means every provider in the cascade failed or
// was disabled; the caller should fall back to typed input.
var ErrTranscriptionUnavailable = errors.New("all transcription providers failed")

// TranscribeProvider is one interchangeable speech-to-text backend in the
// cascade. filename carries the upload's extension so providers can detect
// the audio container.
type TranscribeProvider interface {
	Name() string
	Enabled() bool
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// TranscribeService runs the provider cascade and returns the first non-empty
// transcript.
type TranscribeService interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

type transcribeService struct {
	providers []TranscribeProvider
}

// NewTranscribeService builds the cascade. Providers are attempted strictly
// in the order given; the first usable transcript wins.
func NewTranscribeService(providers ...TranscribeProvider) TranscribeService {
	return &transcribeService{
		providers: providers,
	}
}

// Transcribe implements TranscribeService.
func (s *transcribeService) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", ErrTranscriptionUnavailable
	}

	for _, provider := range s.providers {
		if !provider.Enabled() {
			log.Printf("🔇 Transcription provider %s skipped (disabled)\n", provider.Name())
			continue
		}

		text, err := provider.Transcribe(ctx, audio, filename)
		if err != nil {
			log.Printf("⚠️ Transcription provider %s failed: %v\n", provider.Name(), err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			log.Printf("⚠️ Transcription provider %s returned empty text\n", provider.Name())
			continue
		}

		log.Printf("🎙️ Transcribed %d bytes via %s\n", len(audio), provider.Name())
		return text, nil
	}

	return "", ErrTranscriptionUnavailable
}
