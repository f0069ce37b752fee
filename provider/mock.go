package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	chatlate "github.com/ZaguanLabs/chatlate"
)

// Mock is a scriptable engine for tests and offline runs.
type Mock struct {
	Translations map[string]string // Map of source text to translation
	Transform    func(text, sourceLang, targetLang string) string
	FailFirst    int           // Fail this many calls before succeeding; negative fails forever
	Err          error         // Returned by failing calls (default: a BackendError)
	Delay        time.Duration // Wait before answering; honours ctx cancellation

	mu    sync.Mutex
	calls []string
}

// NewMock creates a mock engine with a few canned translations.
func NewMock() *Mock {
	return &Mock{
		Translations: map[string]string{
			"Hello":       "Привет",
			"World":       "Мир",
			"Hello World": "Привет мир",
		},
	}
}

// Translate returns the canned translation, Transform's output, or the
// text in brackets.
func (m *Mock) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	n := len(m.calls)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	if m.FailFirst < 0 || n <= m.FailFirst {
		if m.Err != nil {
			return "", m.Err
		}
		return "", &chatlate.BackendError{Engine: "mock", Message: fmt.Sprintf("scripted failure %d", n)}
	}

	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	if m.Transform != nil {
		return m.Transform(text, sourceLang, targetLang), nil
	}
	return fmt.Sprintf("[%s]", text), nil
}

// CallCount returns the number of Translate calls.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns the texts received so far, in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reset clears the recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ chatlate.Client = (*Mock)(nil)
