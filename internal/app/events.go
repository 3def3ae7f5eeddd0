// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	EventPhase            = "dictation-phase"   // types.Status
	EventTranscription    = "transcription"     // types.Transcript
	EventLanguageChanged  = "language-changed"  // types.Language
	EventWindowVisibility = "window-visibility" // bool
)
