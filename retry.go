package chatlate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Total attempts per chunk, including the first
	Timeout     time.Duration // Deadline for a single attempt
	BaseDelay   time.Duration // Initial delay between attempts (0 retries immediately)
	MaxDelay    time.Duration // Maximum delay between attempts
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Timeout:     10 * time.Second,
		MaxDelay:    5 * time.Second,
	}
}

// RetryExecutor runs single engine calls with a per-attempt timeout and a
// bounded number of attempts.
type RetryExecutor struct {
	client Client
	config RetryConfig
	logger *slog.Logger
}

// NewRetryExecutor creates an executor around client.
func NewRetryExecutor(client Client, cfg RetryConfig, logger *slog.Logger) *RetryExecutor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRetryConfig().Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryExecutor{
		client: client,
		config: cfg,
		logger: logger,
	}
}

type attemptResult struct {
	text string
	err  error
}

// Execute translates text, retrying timeouts, engine errors and empty
// results. Once every attempt has failed it returns a *DefinitiveFailure.
func (e *RetryExecutor) Execute(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &DefinitiveFailure{Attempts: attempt - 1, Cause: err}
		}

		result, err := e.attempt(ctx, attempt, text, sourceLang, targetLang)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == e.config.MaxAttempts {
			break
		}

		e.logger.Warn("translation attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if delay := e.backoff(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return "", &DefinitiveFailure{Attempts: attempt, Cause: ctx.Err()}
			case <-time.After(delay):
			}
		}
	}

	e.logger.Error("translation failed after all attempts",
		slog.Int("attempts", e.config.MaxAttempts),
		slog.String("error", lastErr.Error()))

	return "", &DefinitiveFailure{Attempts: e.config.MaxAttempts, Cause: lastErr}
}

// attempt runs one engine call in its own goroutine so a hung engine cannot
// hold the caller past the timeout. An abandoned call finishes into the
// buffered channel and its result is dropped.
func (e *RetryExecutor) attempt(ctx context.Context, n int, text, sourceLang, targetLang string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	done := make(chan attemptResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult{err: &BackendError{Message: "engine panicked", Cause: fmt.Errorf("%v", r)}}
			}
		}()
		translated, err := e.client.Translate(attemptCtx, text, sourceLang, targetLang)
		done <- attemptResult{text: translated, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			// An engine that honors the context may report the deadline itself.
			if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
				return "", &TimeoutError{Attempt: n, Timeout: e.config.Timeout}
			}
			return "", res.err
		}
		if res.text == "" {
			return "", &BackendError{Message: "empty translation"}
		}
		return res.text, nil
	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", &TimeoutError{Attempt: n, Timeout: e.config.Timeout}
	}
}

// backoff returns the delay before the attempt after n.
func (e *RetryExecutor) backoff(n int) time.Duration {
	if e.config.BaseDelay <= 0 {
		return 0
	}
	delay := e.config.BaseDelay * time.Duration(1<<(n-1))
	if e.config.MaxDelay > 0 && delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}
	return delay
}
