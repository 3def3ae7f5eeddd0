package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v3/pkg/application"

	"go.aimuz.me/whispertype/audiocapture"
	"go.aimuz.me/whispertype/clipboard"
	"go.aimuz.me/whispertype/config"
	"go.aimuz.me/whispertype/dictation"
	"go.aimuz.me/whispertype/history"
	"go.aimuz.me/whispertype/hotkey"
	"go.aimuz.me/whispertype/internal/types"
	"go.aimuz.me/whispertype/keyboard"
	"go.aimuz.me/whispertype/langdetect"
	"go.aimuz.me/whispertype/language"
	"go.aimuz.me/whispertype/stt"
	"go.aimuz.me/whispertype/trayicon"
)

var (
	// ErrUnknownLanguage is returned when selecting a language outside the supported set.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrNoTranscription is returned when copying before anything was transcribed.
	ErrNoTranscription = errors.New("no transcription available")
)

// windowControl shows and hides the main window.
type windowControl struct {
	show func()
	hide func()
}

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; the dictation state machine lives in
// the dictation package.
type Service struct {
	cfg         *config.Config
	session     *Session
	hotkeyLabel string

	// UI references - set via Init
	app       *application.App
	window    windowControl
	indicator *dictation.Indicator

	history   *history.Store
	provider  stt.Provider
	dictation *dictation.Controller
	hotkey    *hotkey.Listener

	setClipboard func(string) error

	shutdownOnce sync.Once

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string, cfg *config.Config) *Service {
	label := cfg.Hotkey
	if chord, err := hotkey.ParseChord(cfg.Hotkey); err == nil {
		label = chord.Label()
	}
	return &Service{
		cfg:          cfg,
		session:      NewSession(cfg.Language),
		hotkeyLabel:  label,
		setClipboard: clipboard.SetText,
		version:      version,
	}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// Init wires the window, the tray indicator and the dictation pipeline, then
// starts listening for the hotkey.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window, tray *application.SystemTray) {
	s.app = app
	s.window = windowControl{
		show: func() {
			window.Show()
			window.Focus()
		},
		hide: func() { window.Hide() },
	}
	s.indicator = dictation.NewIndicator(func(c types.Color) {
		tray.SetIcon(trayicon.For(c))
	})
	s.indicator.Show(dictation.Idle)

	s.setupHistory()
	// Loading language models takes a while; keep it off the first dictation.
	go langdetect.Warm()

	whisper := stt.NewWhisperAPI(stt.WhisperAPIConfig{
		APIKey:  s.cfg.APIKey,
		BaseURL: s.cfg.BaseURL,
		Model:   s.cfg.Model,
		Timeout: s.cfg.RequestTimeout.Std(),
	})
	if !whisper.IsReady() {
		slog.Warn("no API key configured, transcription will fail until OPENAI_API_KEY is set")
	}
	s.provider = whisper

	recorder := audiocapture.NewRecorder(audiocapture.Config{
		SampleRate:      s.cfg.SampleRate,
		Channels:        s.cfg.Channels,
		FramesPerBuffer: s.cfg.FramesPerBuffer,
	})
	s.setupDictation(recorder, s.provider, keyboard.New(s.cfg.TypeDelay.Std()))

	s.setupHotkey()
}

// Shutdown stops the hotkey, finishes an in-progress recording, waits for its
// transcription and releases resources. Safe to call more than once.
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.hotkey != nil {
			s.hotkey.Stop()
		}
		if s.dictation != nil {
			s.dictation.Close()
		}
		if s.provider != nil {
			if err := s.provider.Close(); err != nil {
				slog.Error("close transcription provider", "error", err)
			}
		}
		if s.history != nil {
			if err := s.history.Close(); err != nil {
				slog.Error("close history", "error", err)
			}
		}
		slog.Info("shutdown complete")
	})
}

func (s *Service) setupHistory() {
	h, err := history.Open(history.Options{
		Size: s.cfg.HistorySize,
		TTL:  s.cfg.HistoryTTL.Std(),
	})
	if err != nil {
		slog.Error("init history", "error", err)
		return
	}
	s.history = h
}

func (s *Service) setupDictation(rec dictation.Recorder, transcriber dictation.Transcriber, typer dictation.Typer) {
	s.dictation = dictation.NewController(dictation.Options{
		HoldDelay:      s.cfg.HoldDelay.Std(),
		RequestTimeout: s.cfg.RequestTimeout.Std(),
		Language:       s.session.Language,
		OnPhase:        s.onPhase,
		OnTranscript:   s.onTranscript,
	}, rec, transcriber, typer)
}

func (s *Service) setupHotkey() {
	chord, err := hotkey.ParseChord(s.cfg.Hotkey)
	if err != nil {
		slog.Error("parse hotkey", "hotkey", s.cfg.Hotkey, "error", err)
		return
	}

	s.hotkey = hotkey.NewListener(chord, s.dictation.ChordDown, s.dictation.ChordUp)
	if err := s.hotkey.Start(); err != nil {
		slog.Error("start hotkey", "error", err)
	}
}

// onPhase runs under the controller lock; it only touches the session, the
// indicator and the event bus.
func (s *Service) onPhase(p dictation.Phase) {
	s.session.SetPhase(p)
	if s.indicator != nil {
		s.indicator.Show(p)
	}
	s.emit(EventPhase, s.GetStatus())
}

func (s *Service) onTranscript(t types.Transcript) {
	detected, mismatch := langdetect.Mismatch(t.Text, t.Language)
	t.Detected = detected
	if mismatch {
		slog.Warn("transcription language differs from selection",
			"selected", t.Language, "detected", detected)
	}

	s.session.SetLastText(t.Text)
	if s.history != nil {
		if err := s.history.Add(t); err != nil {
			slog.Warn("store transcript", "error", err)
		}
	}
	s.emit(EventTranscription, t)
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	if s.app != nil {
		s.app.Event.Emit(name, data)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Language
// ─────────────────────────────────────────────────────────────────────────────

// GetLanguages returns the supported dictation languages.
func (s *Service) GetLanguages() []types.Language {
	return language.List()
}

// GetLanguage returns the selected dictation language.
func (s *Service) GetLanguage() types.Language {
	l, _ := language.Lookup(s.session.Language())
	return l
}

// SetLanguage selects the language hint for later transcriptions.
// An unknown code leaves the selection unchanged.
func (s *Service) SetLanguage(code string) (types.Language, error) {
	l, ok := language.Lookup(code)
	if !ok {
		slog.Warn("reject language", "code", code)
		return types.Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}

	s.session.SetLanguage(l.Code)
	slog.Info("language changed", "code", l.Code, "name", l.Name)
	s.emit(EventLanguageChanged, l)
	return l, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Window & Clipboard
// ─────────────────────────────────────────────────────────────────────────────

// MinimizeToTray hides the window. The tray stays available.
func (s *Service) MinimizeToTray() {
	s.hideWindow()
}

// ToggleWindow shows the window if hidden, hides it otherwise.
func (s *Service) ToggleWindow() {
	if s.session.Visible() {
		s.hideWindow()
	} else {
		s.showWindow()
	}
}

func (s *Service) showWindow() {
	if s.window.show != nil {
		s.window.show()
	}
	s.session.SetVisible(true)
	s.emit(EventWindowVisibility, true)
}

func (s *Service) hideWindow() {
	if s.window.hide != nil {
		s.window.hide()
	}
	s.session.SetVisible(false)
	s.emit(EventWindowVisibility, false)
}

// CopyLastTranscription puts the last transcription on the clipboard.
func (s *Service) CopyLastTranscription() error {
	text := s.session.LastText()
	if text == "" {
		slog.Info("no transcription available")
		return ErrNoTranscription
	}

	if err := s.setClipboard(text); err != nil {
		slog.Error("copy transcription", "error", err)
		return err
	}
	slog.Info("copied last transcription", "chars", len(text))
	return nil
}

// GetLastTranscription returns the last transcribed text, or "".
func (s *Service) GetLastTranscription() string {
	return s.session.LastText()
}

// GetHistory returns recent transcriptions, newest first.
func (s *Service) GetHistory() []types.Transcript {
	if s.history == nil {
		return nil
	}
	ts, err := s.history.Recent(0)
	if err != nil {
		slog.Error("read history", "error", err)
		return nil
	}
	return ts
}

// GetStatus returns a snapshot of the dictation state.
func (s *Service) GetStatus() types.Status {
	p := s.session.Phase()
	return types.Status{
		Phase:     p.String(),
		Color:     p.Color(),
		Language:  s.session.Language(),
		Recording: p == dictation.Recording,
		Visible:   s.session.Visible(),
		Hotkey:    s.hotkeyLabel,
	}
}
