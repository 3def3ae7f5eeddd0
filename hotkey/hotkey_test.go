package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	hook "github.com/robotn/gohook"
)

func mustChord(t *testing.T, s string) Chord {
	t.Helper()
	c, err := ParseChord(s)
	if err != nil {
		t.Fatalf("ParseChord(%q): %v", s, err)
	}
	return c
}

func press(code uint16) hook.Event   { return hook.Event{Kind: hook.KeyHold, Keycode: code} }
func release(code uint16) hook.Event { return hook.Event{Kind: hook.KeyUp, Keycode: code} }

func TestParseChord(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ctrl+space", "ctrl+space", false},
		{" Ctrl + Space ", "ctrl+space", false},
		{"shift+alt+a", "shift+alt+a", false},
		{"", "", true},
		{"ctrl+", "", true},
		{"ctrl+nosuchkey", "", true},
		{"ctrl+ctrl", "", true},
		{"a+b+c+d+e", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseChord(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChord(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && c.String() != tt.want {
				t.Errorf("String() = %q, want %q", c.String(), tt.want)
			}
		})
	}
}

func TestChord_Label(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ctrl+space", "Ctrl+Space"},
		{"shift+alt+a", "Shift+Alt+A"},
		{"a", "A"},
	}
	for _, tt := range tests {
		if got := mustChord(t, tt.in).Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatcher_RightModifier(t *testing.T) {
	rctrl, ok := hook.Keycode["rctrl"]
	if !ok {
		t.Skip("key table has no right control")
	}
	space := hook.Keycode["space"]

	m := newMatcher(mustChord(t, "ctrl+space"))
	if got := m.handle(press(rctrl)); got != EdgeNone {
		t.Errorf("right ctrl alone: edge = %v, want none", got)
	}
	if got := m.handle(press(space)); got != EdgeDown {
		t.Errorf("right ctrl+space: edge = %v, want down", got)
	}
	if got := m.handle(release(rctrl)); got != EdgeUp {
		t.Errorf("release right ctrl: edge = %v, want up", got)
	}
}

func TestMatcher_Sequence(t *testing.T) {
	ctrl := hook.Keycode["ctrl"]
	space := hook.Keycode["space"]
	a := hook.Keycode["a"]

	sequence := []struct {
		name string
		ev   hook.Event
		want Edge
	}{
		{"1. ctrl alone", press(ctrl), EdgeNone},
		{"2. space completes chord", press(space), EdgeDown},
		{"3. auto-repeat space", press(space), EdgeNone},
		{"4. auto-repeat ctrl", press(ctrl), EdgeNone},
		{"5. unrelated key", press(a), EdgeNone},
		{"6. typed char event", hook.Event{Kind: hook.KeyDown, Keychar: 'a'}, EdgeNone},
		{"7. unrelated release", release(a), EdgeNone},
		{"8. release space", release(space), EdgeUp},
		{"9. release ctrl", release(ctrl), EdgeNone},
		{"10. mouse event", hook.Event{Kind: hook.MouseDown}, EdgeNone},
	}

	m := newMatcher(mustChord(t, "ctrl+space"))
	for _, step := range sequence {
		if got := m.handle(step.ev); got != step.want {
			t.Errorf("%s: edge = %v, want %v", step.name, got, step.want)
		}
	}
}

// fakeHook feeds events to a Listener without installing a system hook.
type fakeHook struct {
	events chan hook.Event
	ended  bool
}

func newTestListener(t *testing.T, chord Chord) (*Listener, *fakeHook, <-chan string) {
	t.Helper()
	edges := make(chan string, 10)
	fh := &fakeHook{events: make(chan hook.Event, 10)}

	l := NewListener(chord, func() { edges <- "down" }, func() { edges <- "up" })
	l.startHook = func() chan hook.Event { return fh.events }
	l.endHook = func() { fh.ended = true }
	return l, fh, edges
}

func expectEdge(t *testing.T, edges <-chan string, want string) {
	t.Helper()
	select {
	case got := <-edges:
		if got != want {
			t.Fatalf("edge = %q, want %q", got, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestListener_Callbacks(t *testing.T) {
	l, fh, edges := newTestListener(t, mustChord(t, "ctrl+space"))

	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	fh.events <- press(hook.Keycode["ctrl"])
	fh.events <- press(hook.Keycode["space"])
	expectEdge(t, edges, "down")

	fh.events <- release(hook.Keycode["space"])
	expectEdge(t, edges, "up")

	l.Stop()
	if !fh.ended {
		t.Error("Stop did not end the hook")
	}
}

func TestListener_DoubleStart(t *testing.T) {
	l, _, _ := newTestListener(t, mustChord(t, "ctrl+space"))

	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer l.Stop()

	if err := l.Start(); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
}

func TestListener_StopIdempotent(t *testing.T) {
	l, _, _ := newTestListener(t, mustChord(t, "ctrl+space"))

	l.Stop() // never started
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	for range 3 {
		wg.Go(l.Stop)
	}
	wg.Wait()
}
