// Package hotkey watches the global keyboard for a held key chord.
package hotkey

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	hook "github.com/robotn/gohook"
)

// aliases maps a modifier name to every key that satisfies it.
var aliases = map[string][]string{
	"ctrl":    {"ctrl", "rctrl"},
	"control": {"ctrl", "rctrl"},
	"shift":   {"shift", "rshift"},
	"alt":     {"alt", "ralt"},
	"option":  {"alt", "ralt"},
	"cmd":     {"cmd", "rcmd"},
	"command": {"cmd", "rcmd"},
	"super":   {"cmd", "rcmd"},
}

// Key is one position of a chord, satisfied by any of its key codes.
type Key struct {
	Name  string
	Codes []uint16
}

// Chord is a set of keys that must all be held at once.
type Chord struct {
	Keys []Key
}

// ParseChord parses a chord such as "ctrl+space".
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) == 0 || len(parts) > 4 {
		return Chord{}, fmt.Errorf("parse chord %q: want 1 to 4 keys", s)
	}

	var c Chord
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return Chord{}, fmt.Errorf("parse chord %q: empty key", s)
		}

		names := aliases[name]
		if names == nil {
			names = []string{name}
		}
		var codes []uint16
		for _, n := range names {
			if code, ok := hook.Keycode[n]; ok {
				codes = append(codes, code)
			}
		}
		if len(codes) == 0 {
			return Chord{}, fmt.Errorf("parse chord %q: unknown key %q", s, name)
		}
		if slices.ContainsFunc(c.Keys, func(k Key) bool { return k.Name == name }) {
			return Chord{}, fmt.Errorf("parse chord %q: duplicate key %q", s, name)
		}
		c.Keys = append(c.Keys, Key{Name: name, Codes: codes})
	}
	return c, nil
}

// String returns the chord in "ctrl+space" form.
func (c Chord) String() string {
	names := make([]string, len(c.Keys))
	for i, k := range c.Keys {
		names[i] = k.Name
	}
	return strings.Join(names, "+")
}

// Label returns the chord for display, such as "Ctrl+Space".
func (c Chord) Label() string {
	names := make([]string, len(c.Keys))
	for i, k := range c.Keys {
		r := []rune(k.Name)
		r[0] = unicode.ToUpper(r[0])
		names[i] = string(r)
	}
	return strings.Join(names, "+")
}

// Edge is a change in whether the chord is held.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeDown      // every key of the chord is now held
	EdgeUp        // a key of a held chord was released
)

// matcher tracks pressed keys and reports chord edges.
// Key auto-repeat produces repeated presses, which never yield a second EdgeDown.
type matcher struct {
	chord   Chord
	pressed map[uint16]bool
	held    bool
}

func newMatcher(c Chord) *matcher {
	return &matcher{chord: c, pressed: make(map[uint16]bool)}
}

func (m *matcher) handle(ev hook.Event) Edge {
	switch ev.Kind {
	case hook.KeyHold, hook.KeyDown:
		// Typed-character events carry no key code.
		if ev.Keycode == 0 {
			return EdgeNone
		}
		m.pressed[ev.Keycode] = true
	case hook.KeyUp:
		delete(m.pressed, ev.Keycode)
	default:
		return EdgeNone
	}

	all := m.allPressed()
	switch {
	case all && !m.held:
		m.held = true
		return EdgeDown
	case !all && m.held:
		m.held = false
		return EdgeUp
	}
	return EdgeNone
}

func (m *matcher) allPressed() bool {
	for _, k := range m.chord.Keys {
		if !slices.ContainsFunc(k.Codes, func(c uint16) bool { return m.pressed[c] }) {
			return false
		}
	}
	return len(m.chord.Keys) > 0
}
