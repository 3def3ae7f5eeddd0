package audiocapture

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Recording is the audio captured during one hold of the hotkey.
type Recording struct {
	SampleRate int
	Channels   int
	Chunks     [][]int16 // interleaved samples, in capture order
}

// Frames returns the number of sample frames across all chunks.
func (r *Recording) Frames() int {
	if r == nil || r.Channels == 0 {
		return 0
	}
	n := 0
	for _, c := range r.Chunks {
		n += len(c)
	}
	return n / r.Channels
}

// Empty reports whether nothing was captured.
func (r *Recording) Empty() bool {
	return r.Frames() == 0
}

// Duration returns the length of the captured audio.
func (r *Recording) Duration() time.Duration {
	if r == nil || r.SampleRate == 0 {
		return 0
	}
	return time.Duration(r.Frames()) * time.Second / time.Duration(r.SampleRate)
}

// Level returns the RMS amplitude of the recording, normalized to 0..1.
func (r *Recording) Level() float64 {
	if r == nil {
		return 0
	}
	var sum float64
	n := 0
	for _, c := range r.Chunks {
		for _, s := range c {
			v := float64(s) / math.MaxInt16
			sum += v * v
		}
		n += len(c)
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// Recorder accumulates chunks from a fresh Capturer per recording.
// A Recorder holds at most one recording at a time.
type Recorder struct {
	cfg Config
	// open returns the device used for the next recording.
	open func(Config) Capturer

	mu        sync.Mutex
	capture   Capturer
	chunks    [][]int16
	recording bool
}

// NewRecorder creates a Recorder for the default microphone.
func NewRecorder(cfg Config) *Recorder {
	return NewRecorderWith(cfg, New)
}

// NewRecorderWith creates a Recorder that opens devices with open.
func NewRecorderWith(cfg Config, open func(Config) Capturer) *Recorder {
	return &Recorder{cfg: cfg.withDefaults(), open: open}
}

// Start opens the device and begins a new recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrRunning
	}

	c := r.open(r.cfg)
	r.chunks = nil
	if err := c.Start(r.append); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}

	r.capture = c
	r.recording = true
	slog.Debug("capture started",
		"sample_rate", r.cfg.SampleRate,
		"channels", r.cfg.Channels,
		"chunk", r.cfg.ChunkDuration(),
	)
	return nil
}

func (r *Recorder) append(chunk []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.chunks = append(r.chunks, chunk)
	}
}

// Stop ends the recording and hands over everything captured.
// The buffer is consumed: a second Stop returns ErrNotRecording.
// If the device failed, the partial recording is returned with the error.
func (r *Recorder) Stop() (*Recording, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.recording = false
	c := r.capture
	r.capture = nil
	r.mu.Unlock()

	// Stop waits for the read loop, which may be blocked in append.
	stopErr := c.Stop()

	r.mu.Lock()
	rec := &Recording{
		SampleRate: r.cfg.SampleRate,
		Channels:   r.cfg.Channels,
		Chunks:     r.chunks,
	}
	r.chunks = nil
	r.mu.Unlock()

	if stopErr != nil {
		return rec, fmt.Errorf("stop capture: %w", stopErr)
	}
	return rec, nil
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}
