// Package types provides shared type definitions for the application.
package types

// Language is one entry of the fixed dictation language list.
type Language struct {
	Code   string `json:"code"`   // ISO 639-1 code sent as the transcription hint
	Name   string `json:"name"`   // English display name
	Native string `json:"native"` // Name in the language itself
}

// Color is the tray indicator color.
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
)

// Transcript is one successful transcription.
type Transcript struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language"`           // Language hint used for the request
	Detected string `json:"detected,omitempty"` // Language detected in the text, if any
	Duration int64  `json:"duration"`           // Recorded audio length in milliseconds
	Created  int64  `json:"created"`            // Unix timestamp in milliseconds
}

// Status is a snapshot of the dictation state for the window.
type Status struct {
	Phase     string `json:"phase"`
	Color     Color  `json:"color"`
	Language  string `json:"language"`
	Recording bool   `json:"recording"`
	Visible   bool   `json:"visible"`
	Hotkey    string `json:"hotkey"` // Chord label, e.g. "Ctrl+Space"
}
