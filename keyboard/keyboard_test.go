package keyboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newRecordingTyper(delay time.Duration) (*Typer, *[]string) {
	var typed []string
	return &Typer{
		delay:    delay,
		typeText: func(s string) { typed = append(typed, s) },
	}, &typed
}

func TestType_WaitsForDelay(t *testing.T) {
	ty, typed := newRecordingTyper(30 * time.Millisecond)

	start := time.Now()
	if err := ty.Type(context.Background(), "hello"); err != nil {
		t.Fatalf("Type: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("typed after %v, want at least 30ms", elapsed)
	}
	if len(*typed) != 1 || (*typed)[0] != "hello" {
		t.Errorf("typed = %q, want [hello]", *typed)
	}
}

func TestType_Empty(t *testing.T) {
	ty, typed := newRecordingTyper(time.Hour)

	if err := ty.Type(context.Background(), ""); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if len(*typed) != 0 {
		t.Errorf("typed = %q, want nothing", *typed)
	}
}

func TestType_Cancelled(t *testing.T) {
	ty, typed := newRecordingTyper(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ty.Type(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(*typed) != 0 {
		t.Errorf("typed = %q after cancel, want nothing", *typed)
	}
}
