package chatlate

import (
	"context"
	"sync"
	"time"
)

// Throttle keeps engine requests within a per-minute budget. One Throttle
// is shared by every request a Bridge makes, so the budget spans messages
// and chunks alike. A full minute's budget may start at once; after that
// requests are spaced evenly.
type Throttle struct {
	mu  sync.Mutex
	rpm int
	tat time.Time // theoretical arrival time of the next request
	now func() time.Time
}

// NewThrottle creates an idle throttle.
func NewThrottle() *Throttle {
	return &Throttle{now: time.Now}
}

// reserve books the earliest start allowed under rpm. A start later than
// deadline books nothing and reports false. Changing rpm starts a fresh
// budget.
func (t *Throttle) reserve(rpm int, deadline time.Time) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if rpm != t.rpm {
		t.rpm = rpm
		t.tat = time.Time{}
	}

	interval := time.Minute / time.Duration(rpm)
	tolerance := time.Duration(rpm-1) * interval

	tat := t.tat
	if tat.Before(now) {
		tat = now
	}
	start := tat.Add(-tolerance)
	if start.Before(now) {
		start = now
	}
	if !deadline.IsZero() && start.After(deadline) {
		return start, false
	}

	t.tat = tat.Add(interval)
	return start, true
}

// Wait blocks until a request may start under a budget of rpm requests
// per minute. A non-positive rpm never blocks. When the next free start
// lies past the deadline of ctx, Wait returns context.DeadlineExceeded
// right away and leaves the budget untouched.
func (t *Throttle) Wait(ctx context.Context, rpm int) error {
	if rpm <= 0 {
		return nil
	}

	deadline, _ := ctx.Deadline()
	start, ok := t.reserve(rpm, deadline)
	if !ok {
		return context.DeadlineExceeded
	}

	delay := start.Sub(t.now())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client wraps client so every Translate call waits for the throttle.
// A non-positive rpm returns client unchanged.
func (t *Throttle) Client(client Client, rpm int) Client {
	if rpm <= 0 {
		return client
	}
	return &throttledClient{client: client, throttle: t, rpm: rpm}
}

type throttledClient struct {
	client   Client
	throttle *Throttle
	rpm      int
}

func (c *throttledClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if err := c.throttle.Wait(ctx, c.rpm); err != nil {
		return "", err
	}
	return c.client.Translate(ctx, text, sourceLang, targetLang)
}
