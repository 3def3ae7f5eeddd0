package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// WhisperAPI implements the Provider interface using OpenAI's transcription API
// or any server compatible with it.
type WhisperAPI struct {
	client openai.Client
	model  string
	ready  bool
}

// WhisperAPIConfig holds configuration for WhisperAPI.
type WhisperAPIConfig struct {
	APIKey  string
	BaseURL string        // Optional, defaults to OpenAI's API
	Model   string        // Optional, defaults to "whisper-1"
	Timeout time.Duration // Optional, defaults to 60s
}

// NewWhisperAPI creates a new WhisperAPI provider.
// A missing API key is reported by Transcribe, not here, so the app can start
// and show the error state on first use.
func NewWhisperAPI(cfg WhisperAPIConfig) *WhisperAPI {
	model := cfg.Model
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		// Failed transcriptions are surfaced, never retried.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(normalizeBaseURL(cfg.BaseURL)))
	}

	return &WhisperAPI{
		client: openai.NewClient(opts...),
		model:  model,
		ready:  cfg.APIKey != "",
	}
}

func (w *WhisperAPI) Name() string { return "whisper-api" }

// IsReady reports whether an API key is configured.
func (w *WhisperAPI) IsReady() bool { return w.ready }

// Transcribe uploads audio and returns the recognized text.
func (w *WhisperAPI) Transcribe(ctx context.Context, audio Audio, language string) (*TranscribeResult, error) {
	if !w.ready {
		return nil, fmt.Errorf("whisper api: %w: API key required", ErrNotConfigured)
	}
	if len(audio.Data) == 0 {
		return nil, fmt.Errorf("whisper api: empty audio")
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio.Data), audio.Filename, audio.ContentType),
		Model: openai.AudioModel(w.model),
	}
	// The API does not accept "auto"; omitting the field means auto-detect.
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create transcription: %w", err)
	}

	return &TranscribeResult{Text: strings.TrimSpace(resp.Text)}, nil
}

func (w *WhisperAPI) Close() error {
	return nil
}

// normalizeBaseURL accepts both "https://host/v1" and
// "https://host/v1/audio/transcriptions" and returns the API root with a
// trailing slash.
func normalizeBaseURL(u string) string {
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/audio/transcriptions")
	return u + "/"
}
