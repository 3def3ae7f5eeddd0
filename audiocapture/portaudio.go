package audiocapture

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// microphone captures the default input device.
type microphone struct {
	cfg Config

	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []int16
	stop    chan struct{}
	done    chan struct{}
	running bool
	readErr error // set by readLoop before done is closed
}

// New returns a Capturer for the default input device.
// The device is opened on Start, not here.
func New(cfg Config) Capturer {
	return &microphone{cfg: cfg.withDefaults()}
}

func (m *microphone) Start(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrRunning
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("init portaudio: %w", err)
	}

	m.buf = make([]int16, m.cfg.FramesPerBuffer*m.cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(m.cfg.Channels, 0, float64(m.cfg.SampleRate), m.cfg.FramesPerBuffer, m.buf)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("start input stream: %w", err)
	}

	m.stream = stream
	m.readErr = nil
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	go m.readLoop(stream, m.buf, h, m.stop, m.done)
	return nil
}

// readLoop blocks on device reads until stop is closed.
func (m *microphone) readLoop(stream *portaudio.Stream, buf []int16, h Handler, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			slog.Error("read input stream", "error", err)
			m.readErr = fmt.Errorf("read input stream: %w", err)
			return
		}
		h(slices.Clone(buf))
	}
}

// Stop releases the device. It also reports a read failure that ended
// capture early, since the audio delivered so far is then incomplete.
func (m *microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false

	close(m.stop)
	<-m.done

	// readLoop has exited, so readErr is stable.
	errs := []error{m.readErr}
	if err := m.stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop input stream: %w", err))
	}
	if err := m.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close input stream: %w", err))
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("terminate portaudio: %w", err))
	}
	m.stream = nil
	return errors.Join(errs...)
}
