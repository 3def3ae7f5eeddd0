// Package keyboard types text into the application that has input focus.
package keyboard

import (
	"context"
	"time"

	"github.com/go-vgo/robotgo"
)

// DefaultDelay gives the user time to release the hotkey chord before typing
// starts, so held modifiers do not combine with the synthesized keys.
const DefaultDelay = 500 * time.Millisecond

// Typer synthesizes keystrokes after a fixed delay.
type Typer struct {
	delay    time.Duration
	typeText func(string)
}

// New returns a Typer that waits delay before typing.
func New(delay time.Duration) *Typer {
	return &Typer{delay: delay, typeText: typeWithRobotgo}
}

func typeWithRobotgo(s string) { robotgo.TypeStr(s) }

// Type waits for the delay, then types text into the focused window.
// Empty text is not typed.
func (t *Typer) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	if t.delay > 0 {
		timer := time.NewTimer(t.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	t.typeText(text)
	return nil
}
