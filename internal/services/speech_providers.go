package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"
)

// neuralProvider calls an edge-tts sidecar over HTTP. Primary provider in
// the cascade.
type neuralProvider struct {
	endpoint string
	voice    string
	client   *http.Client
}

func NewNeuralProvider(endpoint, voice string) SpeechProvider {
	return &neuralProvider{
		endpoint: endpoint,
		voice:    voice,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *neuralProvider) Name() string { return "neural" }

func (p *neuralProvider) Format() string { return "mp3" }

func (p *neuralProvider) Enabled() bool { return p.endpoint != "" }

func (p *neuralProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"text":  text,
		"voice": p.voice,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("neural tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("neural tts returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read neural tts response: %w", err)
	}

	return audio, nil
}

// translateProvider uses the public translate TTS endpoint. Requests are
// capped at 200 characters, so longer text is chunked on word boundaries and
// the MP3 segments concatenated.
type translateProvider struct {
	baseURL string
	lang    string
	client  *http.Client
}

const translateChunkLimit = 200

func NewTranslateProvider(lang string) SpeechProvider {
	if lang == "" {
		lang = "en"
	}
	return &translateProvider{
		baseURL: "https://translate.google.com/translate_tts",
		lang:    lang,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *translateProvider) Name() string { return "translate" }

func (p *translateProvider) Format() string { return "mp3" }

func (p *translateProvider) Enabled() bool { return true }

func (p *translateProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var audio []byte

	for _, chunk := range chunkWords(text, translateChunkLimit) {
		segment, err := p.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		audio = append(audio, segment...)
	}

	return audio, nil
}

func (p *translateProvider) fetchChunk(ctx context.Context, chunk string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", p.lang)
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build translate tts request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate tts returned status %d", resp.StatusCode)
	}

	segment, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read translate tts response: %w", err)
	}

	return segment, nil
}

// espeakProvider shells out to the espeak binary. Legacy offline fallback;
// can be disabled entirely via configuration (DISABLE_OFFLINE_TTS).
type espeakProvider struct {
	disabled bool
}

func NewEspeakProvider(disabled bool) SpeechProvider {
	return &espeakProvider{disabled: disabled}
}

func (p *espeakProvider) Name() string { return "espeak" }

func (p *espeakProvider) Format() string { return "wav" }

func (p *espeakProvider) Enabled() bool {
	if p.disabled {
		return false
	}
	_, err := exec.LookPath("espeak")
	return err == nil
}

func (p *espeakProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "espeak", "-s", "160", "--stdout")
	cmd.Stdin = strings.NewReader(text)

	audio, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("espeak failed: %w", err)
	}

	return audio, nil
}

// chunkWords splits text into pieces of at most limit characters without
// breaking words.
func chunkWords(text string, limit int) []string {
	words := strings.Fields(text)

	var chunks []string
	var current strings.Builder

	for _, word := range words {
		if current.Len() > 0 && current.Len()+len(word)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}
