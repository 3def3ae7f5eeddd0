// Package audiocapture provides microphone capture using PortAudio.
package audiocapture

import (
	"errors"
	"time"
)

// ErrRunning is returned when Start is called on a running Capturer.
var ErrRunning = errors.New("audio capture already running")

// ErrNilHandler is returned when Start is called without a handler.
var ErrNilHandler = errors.New("audio handler is nil")

// ErrNotRecording is returned when a Recorder is stopped without an active recording.
var ErrNotRecording = errors.New("not recording")

// Handler receives one chunk of interleaved 16-bit samples.
// The slice is owned by the receiver.
type Handler func(chunk []int16)

// Capturer produces fixed-size audio chunks until stopped.
type Capturer interface {
	// Start opens the device and begins delivering chunks to h.
	Start(h Handler) error
	// Stop stops delivery and releases the device. Safe to call repeatedly.
	Stop() error
}

// Config holds configuration for microphone capture.
type Config struct {
	SampleRate      int // Hz, default 44100
	Channels        int // 1 or 2, default 2
	FramesPerBuffer int // frames per chunk, default 1024
}

// DefaultConfig returns the default capture configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		Channels:        2,
		FramesPerBuffer: 1024,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.Channels <= 0 {
		c.Channels = d.Channels
	}
	if c.FramesPerBuffer <= 0 {
		c.FramesPerBuffer = d.FramesPerBuffer
	}
	return c
}

// ChunkDuration returns the audio length of one chunk.
func (c Config) ChunkDuration() time.Duration {
	c = c.withDefaults()
	return time.Duration(c.FramesPerBuffer) * time.Second / time.Duration(c.SampleRate)
}
