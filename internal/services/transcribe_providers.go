package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	openai "github.com/sashabaranov/go-openai"
)

// whisperProvider sends audio to an OpenAI-compatible transcription endpoint.
// Primary provider in the cascade.
type whisperProvider struct {
	client *openai.Client
	model  string
}

func NewWhisperProvider(apiKey, baseURL, model string) TranscribeProvider {
	if apiKey == "" {
		return &whisperProvider{model: model}
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &whisperProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *whisperProvider) Name() string { return "whisper" }

func (p *whisperProvider) Enabled() bool { return p.client != nil }

func (p *whisperProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	return resp.Text, nil
}

// voskProvider shells out to the vosk-transcriber binary. Legacy offline
// fallback; can be disabled entirely via configuration (DISABLE_OFFLINE_STT).
type voskProvider struct {
	disabled bool
}

func NewVoskProvider(disabled bool) TranscribeProvider {
	return &voskProvider{disabled: disabled}
}

func (p *voskProvider) Name() string { return "vosk" }

func (p *voskProvider) Enabled() bool {
	if p.disabled {
		return false
	}
	_, err := exec.LookPath("vosk-transcriber")
	return err == nil
}

func (p *voskProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	tmp, err := os.CreateTemp("", "stt-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("failed to stage audio for vosk: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to stage audio for vosk: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to stage audio for vosk: %w", err)
	}

	cmd := exec.CommandContext(ctx, "vosk-transcriber", "-i", tmp.Name())
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("vosk failed: %w", err)
	}

	return string(out), nil
}
