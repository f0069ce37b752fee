package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMock(t *testing.T) {
	m := NewMock()

	got, err := m.Translate(context.Background(), "Hello", "en", "ru")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Привет" {
		t.Errorf("Expected 'Привет', got %q", got)
	}

	got, _ = m.Translate(context.Background(), "Unknown text", "en", "ru")
	if got != "[Unknown text]" {
		t.Errorf("Expected '[Unknown text]', got %q", got)
	}

	if m.CallCount() != 2 {
		t.Errorf("Expected CallCount 2, got %d", m.CallCount())
	}

	m.Reset()
	if m.CallCount() != 0 {
		t.Errorf("Expected CallCount 0 after Reset, got %d", m.CallCount())
	}
}

func TestMock_Transform(t *testing.T) {
	m := &Mock{Transform: func(text, _, target string) string { return target + ":" + strings.ToUpper(text) }}

	got, _ := m.Translate(context.Background(), "hi", "en", "de")
	if got != "de:HI" {
		t.Errorf("got %q", got)
	}
}

func TestMock_FailFirst(t *testing.T) {
	scripted := errors.New("boom")
	m := &Mock{FailFirst: 2, Err: scripted}

	for i := 0; i < 2; i++ {
		if _, err := m.Translate(context.Background(), "x", "en", "ru"); !errors.Is(err, scripted) {
			t.Errorf("call %d: expected scripted error, got %v", i+1, err)
		}
	}
	if _, err := m.Translate(context.Background(), "x", "en", "ru"); err != nil {
		t.Errorf("third call should succeed, got %v", err)
	}
}

func TestMock_DelayHonoursContext(t *testing.T) {
	m := &Mock{Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.Translate(ctx, "x", "en", "ru")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Delay ignored context cancellation")
	}
}
