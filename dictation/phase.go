// Package dictation turns hotkey edges into recordings, transcriptions and
// typed text.
package dictation

import (
	"sync"

	"go.aimuz.me/whispertype/internal/types"
)

// Phase is the dictation state.
type Phase int

const (
	Idle         Phase = iota
	Arming             // chord held, waiting out the dwell time
	Recording          // microphone open
	Transcribing       // capture stopped, request in flight or text being typed
	Error              // last attempt failed; behaves like Idle
)

var phaseNames = [...]string{
	Idle:         "idle",
	Arming:       "arming",
	Recording:    "recording",
	Transcribing: "transcribing",
	Error:        "error",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Color returns the indicator color for p.
func (p Phase) Color() types.Color {
	switch p {
	case Recording:
		return types.ColorGreen
	case Transcribing:
		return types.ColorBlue
	default:
		return types.ColorRed
	}
}

// Indicator forwards phase colors to push, skipping repeats of the current
// color. Arming keeps the idle color, so a successful run pushes
// red, green, blue, red.
type Indicator struct {
	push func(types.Color)

	mu      sync.Mutex
	current types.Color
}

// NewIndicator returns an Indicator that calls push on every color change.
func NewIndicator(push func(types.Color)) *Indicator {
	return &Indicator{push: push}
}

// Show pushes the color of p if it differs from the last one pushed.
func (i *Indicator) Show(p Phase) {
	c := p.Color()

	i.mu.Lock()
	defer i.mu.Unlock()
	if c == i.current {
		return
	}
	i.current = c
	i.push(c)
}
