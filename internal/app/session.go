package app

import (
	"sync"

	"go.aimuz.me/whispertype/dictation"
)

// Session is the runtime state shared by the window, the tray and the
// dictation pipeline. Nothing in it outlives the process.
type Session struct {
	mu       sync.RWMutex
	language string
	lastText string
	visible  bool
	phase    dictation.Phase
}

// NewSession returns a session with the given language and a visible window.
func NewSession(lang string) *Session {
	return &Session{language: lang, visible: true}
}

func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage stores code without validation; callers check it first.
func (s *Session) SetLanguage(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = code
}

func (s *Session) LastText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastText
}

func (s *Session) SetLastText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastText = text
}

func (s *Session) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

func (s *Session) SetVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = v
}

func (s *Session) Phase() dictation.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *Session) SetPhase(p dictation.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}
