// Package stt provides the speech-to-text provider interface and the remote
// Whisper implementation.
package stt

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a provider is missing credentials.
var ErrNotConfigured = errors.New("speech-to-text provider not configured")

// Audio is an encoded audio file ready for upload.
type Audio struct {
	Data        []byte
	Filename    string // e.g. "audio.wav"
	ContentType string // e.g. "audio/wav"
}

// WAV wraps an encoded WAV payload.
func WAV(data []byte) Audio {
	return Audio{Data: data, Filename: "audio.wav", ContentType: "audio/wav"}
}

// TranscribeResult represents the result of a transcription.
type TranscribeResult struct {
	Text string `json:"text"` // Transcribed text
}

// Provider defines the interface for speech-to-text providers.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe converts one audio file to text.
	// language is an ISO 639-1 hint; empty or "auto" lets the service detect it.
	Transcribe(ctx context.Context, audio Audio, language string) (*TranscribeResult, error)

	// Close releases resources held by the provider.
	Close() error
}
