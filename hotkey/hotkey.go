package hotkey

import (
	"errors"
	"log/slog"
	"sync"

	hook "github.com/robotn/gohook"
)

// ErrRunning is returned when Start is called on a running Listener.
var ErrRunning = errors.New("hotkey listener already running")

// Listener reports when a chord is pressed and released anywhere on the system.
// Callbacks run on the listener goroutine and must not block.
type Listener struct {
	chord  Chord
	onDown func()
	onUp   func()

	// Hook entry points, replaced in tests.
	startHook func() chan hook.Event
	endHook   func()

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewListener creates a Listener for chord.
func NewListener(chord Chord, onDown, onUp func()) *Listener {
	return &Listener{
		chord:     chord,
		onDown:    onDown,
		onUp:      onUp,
		startHook: hook.Start,
		endHook:   hook.End,
	}
}

// Start installs the global keyboard hook.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrRunning
	}

	events := l.startHook()
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.running = true

	go l.run(events, l.stop, l.done)
	slog.Info("hotkey listener started", "chord", l.chord.String())
	return nil
}

func (l *Listener) run(events chan hook.Event, stop, done chan struct{}) {
	defer close(done)

	m := newMatcher(l.chord)
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch m.handle(ev) {
			case EdgeDown:
				slog.Debug("hotkey down", "chord", l.chord.String())
				if l.onDown != nil {
					l.onDown()
				}
			case EdgeUp:
				slog.Debug("hotkey up", "chord", l.chord.String())
				if l.onUp != nil {
					l.onUp()
				}
			}
		}
	}
}

// Stop removes the hook and waits for the listener goroutine to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false

	close(l.stop)
	l.endHook()
	<-l.done
	slog.Info("hotkey listener stopped")
}
