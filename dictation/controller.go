package dictation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go.aimuz.me/whispertype/audiocapture"
	"go.aimuz.me/whispertype/internal/types"
	"go.aimuz.me/whispertype/language"
	"go.aimuz.me/whispertype/stt"
)

// DefaultRequestTimeout bounds one transcription request.
const DefaultRequestTimeout = 60 * time.Second

// Recorder captures one recording at a time.
type Recorder interface {
	Start() error
	Stop() (*audiocapture.Recording, error)
}

// Transcriber converts audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio stt.Audio, language string) (*stt.TranscribeResult, error)
}

// Typer types text into the focused application.
type Typer interface {
	Type(ctx context.Context, text string) error
}

// Options configures a Controller.
type Options struct {
	// HoldDelay is the dwell time before a hold starts recording. Zero
	// records as soon as the chord is down.
	HoldDelay      time.Duration
	RequestTimeout time.Duration

	// Language returns the language hint for the next transcription.
	Language func() string

	// OnPhase is called on every phase change, in order, with the controller
	// lock held. It must not call back into the Controller.
	OnPhase func(Phase)

	// OnTranscript receives each non-empty transcription once typing has
	// been attempted, so slow consumers never delay the keystrokes.
	OnTranscript func(types.Transcript)
}

type timer interface{ Stop() bool }

func realAfterFunc(d time.Duration, f func()) timer { return time.AfterFunc(d, f) }

// Controller runs the hold-to-record state machine. ChordDown and ChordUp are
// driven by the hotkey listener; the transcription pipeline runs on its own
// goroutine so the listener never blocks on the network.
type Controller struct {
	opts  Options
	rec   Recorder
	stt   Transcriber
	typer Typer

	afterFunc func(time.Duration, func()) timer

	mu     sync.Mutex
	phase  Phase
	dwell  timer
	gen    uint64 // invalidates dwell timers from earlier holds
	held   bool
	closed bool

	wg sync.WaitGroup
}

// NewController returns an idle Controller.
func NewController(opts Options, rec Recorder, transcriber Transcriber, typer Typer) *Controller {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Language == nil {
		opts.Language = func() string { return language.Default }
	}
	return &Controller{
		opts:      opts,
		rec:       rec,
		stt:       transcriber,
		typer:     typer,
		afterFunc: realAfterFunc,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// setPhase must be called with c.mu held.
func (c *Controller) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	slog.Debug("dictation phase", "from", c.phase, "to", p)
	c.phase = p
	if c.opts.OnPhase != nil {
		c.opts.OnPhase(p)
	}
}

// ChordDown starts the dwell timer. It is ignored while a recording or
// transcription is in progress and for auto-repeat while the chord is held.
func (c *Controller) ChordDown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.held {
		return
	}
	c.held = true

	switch c.phase {
	case Idle, Error:
	default:
		return
	}

	c.gen++
	gen := c.gen
	c.dwell = c.afterFunc(c.opts.HoldDelay, func() { c.dwellElapsed(gen) })
	c.setPhase(Arming)
}

func (c *Controller) dwellElapsed(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.phase != Arming || gen != c.gen {
		return
	}
	c.dwell = nil

	if err := c.rec.Start(); err != nil {
		slog.Error("start recording", "error", err)
		c.setPhase(Error)
		return
	}

	lang := c.opts.Language()
	slog.Info("recording started", "language", lang, "language_name", displayName(lang))
	c.setPhase(Recording)
}

// ChordUp cancels a pending dwell or ends the recording and starts the
// transcription pipeline.
func (c *Controller) ChordUp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.held = false
	if c.closed {
		return
	}

	switch c.phase {
	case Arming:
		if c.dwell != nil {
			c.dwell.Stop()
			c.dwell = nil
		}
		c.gen++
		c.setPhase(Idle)
	case Recording:
		c.finishRecording()
	}
}

// finishRecording hands the recording to the pipeline. c.mu must be held.
func (c *Controller) finishRecording() {
	lang := c.opts.Language()
	c.setPhase(Transcribing)
	c.wg.Add(1)
	go c.pipeline(lang)
}

// pipeline stops the capture, transcribes it and types the result.
func (c *Controller) pipeline(lang string) {
	defer c.wg.Done()

	next := Idle
	if err := c.process(lang); err != nil {
		slog.Error("dictation failed", "error", err)
		next = Error
	}

	c.mu.Lock()
	c.setPhase(next)
	c.mu.Unlock()
}

func (c *Controller) process(lang string) error {
	rec, err := c.rec.Stop()
	if err != nil {
		return fmt.Errorf("stop recording: %w", err)
	}

	if rec.Empty() {
		slog.Info("nothing captured, skipping transcription")
		return nil
	}

	data, err := rec.EncodeWAV()
	if err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := c.stt.Transcribe(ctx, stt.WAV(data), lang)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	slog.Info("transcription received",
		"language", lang,
		"language_name", displayName(lang),
		"audio", rec.Duration(),
		"level", fmt.Sprintf("%.3f", rec.Level()),
		"latency", time.Since(start),
		"chars", len(res.Text),
	)

	if res.Text == "" {
		return nil
	}

	created := time.Now()
	typeErr := c.typer.Type(context.Background(), res.Text)

	// A typing failure still keeps the text available for Copy Last.
	if c.opts.OnTranscript != nil {
		c.opts.OnTranscript(types.Transcript{
			ID:       uuid.NewString(),
			Text:     res.Text,
			Language: lang,
			Duration: rec.Duration().Milliseconds(),
			Created:  created.UnixMilli(),
		})
	}

	if typeErr != nil {
		return fmt.Errorf("type text: %w", typeErr)
	}
	return nil
}

// Close stops accepting chord edges, ends an in-progress recording as if the
// chord were released, and waits for the transcription to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.wg.Wait()
		return
	}
	c.closed = true

	switch c.phase {
	case Arming:
		if c.dwell != nil {
			c.dwell.Stop()
			c.dwell = nil
		}
		c.setPhase(Idle)
	case Recording:
		slog.Info("finishing recording before shutdown")
		c.finishRecording()
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func displayName(code string) string {
	if l, ok := language.Lookup(code); ok {
		return l.Name
	}
	return code
}
