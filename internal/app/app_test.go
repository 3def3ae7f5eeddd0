package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.aimuz.me/whispertype/audiocapture"
	"go.aimuz.me/whispertype/config"
	"go.aimuz.me/whispertype/dictation"
	"go.aimuz.me/whispertype/stt"
)

func testConfig() *config.Config {
	return &config.Config{
		Language:       "en",
		Hotkey:         "ctrl+space",
		RequestTimeout: config.Duration(time.Second),
		HistorySize:    10,
		HistoryTTL:     config.Duration(time.Hour),
	}
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeClipboard) set(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeClipboard) {
	t.Helper()
	s := New("test", testConfig())
	cb := &fakeClipboard{}
	s.setClipboard = cb.set
	t.Cleanup(s.Shutdown)
	return s, cb
}

func TestService_SetLanguage(t *testing.T) {
	s, _ := newTestService(t)

	if got := s.GetLanguage().Code; got != "en" {
		t.Fatalf("initial language = %q, want en", got)
	}

	l, err := s.SetLanguage("de")
	if err != nil {
		t.Fatalf("SetLanguage(de): %v", err)
	}
	if l.Code != "de" || l.Name != "German" {
		t.Errorf("SetLanguage(de) = %+v", l)
	}

	for _, code := range []string{"xx", "", "EN", "english"} {
		_, err := s.SetLanguage(code)
		if !errors.Is(err, ErrUnknownLanguage) {
			t.Errorf("SetLanguage(%q) error = %v, want ErrUnknownLanguage", code, err)
		}
		if got := s.GetLanguage().Code; got != "de" {
			t.Errorf("after SetLanguage(%q) language = %q, want de", code, got)
		}
	}
}

func TestService_StatusHotkey(t *testing.T) {
	cfg := testConfig()
	cfg.Hotkey = "shift+alt+a"
	s := New("test", cfg)

	if got := s.GetStatus().Hotkey; got != "Shift+Alt+A" {
		t.Errorf("Hotkey = %q, want Shift+Alt+A", got)
	}

	def, _ := newTestService(t)
	if got := def.GetStatus().Hotkey; got != "Ctrl+Space" {
		t.Errorf("default Hotkey = %q, want Ctrl+Space", got)
	}
}

func TestService_GetLanguages(t *testing.T) {
	s, _ := newTestService(t)

	langs := s.GetLanguages()
	if len(langs) != 12 {
		t.Fatalf("got %d languages, want 12", len(langs))
	}
	if langs[0].Code != "en" || langs[len(langs)-1].Code != "ko" {
		t.Errorf("order = %s..%s, want en..ko", langs[0].Code, langs[len(langs)-1].Code)
	}
}

func TestService_CopyLastTranscription(t *testing.T) {
	t.Run("nothing transcribed", func(t *testing.T) {
		s, cb := newTestService(t)

		if err := s.CopyLastTranscription(); !errors.Is(err, ErrNoTranscription) {
			t.Fatalf("error = %v, want ErrNoTranscription", err)
		}
		if len(cb.texts) != 0 {
			t.Errorf("clipboard written %d times, want 0", len(cb.texts))
		}
	})

	t.Run("copies last text", func(t *testing.T) {
		s, cb := newTestService(t)
		s.session.SetLastText("first")
		s.session.SetLastText("second")

		if err := s.CopyLastTranscription(); err != nil {
			t.Fatalf("CopyLastTranscription: %v", err)
		}
		if len(cb.texts) != 1 || cb.texts[0] != "second" {
			t.Errorf("clipboard = %q, want [second]", cb.texts)
		}
	})

	t.Run("clipboard failure", func(t *testing.T) {
		s, cb := newTestService(t)
		cb.err = errors.New("no clipboard utility")
		s.session.SetLastText("text")

		if err := s.CopyLastTranscription(); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestService_WindowVisibility(t *testing.T) {
	s, _ := newTestService(t)

	var shows, hides int
	s.window = windowControl{
		show: func() { shows++ },
		hide: func() { hides++ },
	}

	if !s.GetStatus().Visible {
		t.Fatal("window should start visible")
	}

	s.ToggleWindow()
	if s.GetStatus().Visible || hides != 1 {
		t.Fatalf("after toggle: visible=%v hides=%d", s.GetStatus().Visible, hides)
	}

	s.ToggleWindow()
	if !s.GetStatus().Visible || shows != 1 {
		t.Fatalf("after second toggle: visible=%v shows=%d", s.GetStatus().Visible, shows)
	}

	s.MinimizeToTray()
	s.MinimizeToTray()
	if s.GetStatus().Visible || hides != 3 {
		t.Errorf("after minimize: visible=%v hides=%d", s.GetStatus().Visible, hides)
	}
}

type fakeRecorder struct{}

func (fakeRecorder) Start() error { return nil }

func (fakeRecorder) Stop() (*audiocapture.Recording, error) {
	return &audiocapture.Recording{
		SampleRate: 16000,
		Channels:   1,
		Chunks:     [][]int16{{10, 20, 30, 40}},
	}, nil
}

type fakeTranscriber struct {
	mu    sync.Mutex
	langs []string
	text  string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ stt.Audio, lang string) (*stt.TranscribeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.langs = append(f.langs, lang)
	return &stt.TranscribeResult{Text: f.text}, nil
}

type fakeTyper struct {
	mu    sync.Mutex
	typed []string
}

func (f *fakeTyper) Type(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typed = append(f.typed, text)
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestService_Dictation(t *testing.T) {
	s, cb := newTestService(t)
	s.setupHistory()
	if s.history == nil {
		t.Fatal("history not opened")
	}

	tr := &fakeTranscriber{text: "Bonjour tout le monde, comment allez-vous aujourd'hui?"}
	typer := &fakeTyper{}
	s.setupDictation(fakeRecorder{}, tr, typer)

	if _, err := s.SetLanguage("fr"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}

	s.dictation.ChordDown()
	waitFor(t, "recording", func() bool { return s.GetStatus().Recording })
	if got := s.GetStatus().Color; got != "green" {
		t.Errorf("recording color = %q, want green", got)
	}

	s.dictation.ChordUp()
	s.dictation.Close()

	st := s.GetStatus()
	if st.Phase != dictation.Idle.String() || st.Recording {
		t.Errorf("status after run = %+v, want idle", st)
	}
	if got := s.GetLastTranscription(); got != tr.text {
		t.Errorf("last transcription = %q, want %q", got, tr.text)
	}
	if len(typer.typed) != 1 || typer.typed[0] != tr.text {
		t.Errorf("typed = %q", typer.typed)
	}
	if len(tr.langs) != 1 || tr.langs[0] != "fr" {
		t.Errorf("language hints = %q, want [fr]", tr.langs)
	}

	hist := s.GetHistory()
	if len(hist) != 1 {
		t.Fatalf("history has %d entries, want 1", len(hist))
	}
	if hist[0].Language != "fr" || hist[0].Detected != "fr" || hist[0].ID == "" {
		t.Errorf("history entry = %+v", hist[0])
	}

	if err := s.CopyLastTranscription(); err != nil {
		t.Fatalf("CopyLastTranscription: %v", err)
	}
	if len(cb.texts) != 1 || cb.texts[0] != tr.text {
		t.Errorf("clipboard = %q", cb.texts)
	}
}

func TestService_ShutdownIdempotent(t *testing.T) {
	s, _ := newTestService(t)
	s.setupHistory()
	s.setupDictation(fakeRecorder{}, &fakeTranscriber{}, &fakeTyper{})

	s.Shutdown()
	s.Shutdown()
}
