package chatlate

import (
	"fmt"
	"time"
)

// ValidationError indicates a config the pipeline cannot run with.
// No engine call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config (%s): %s", e.Field, e.Message)
}

// BackendError indicates an engine failure (network, auth, unsupported language, bad response).
type BackendError struct {
	Engine  Engine
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend error (%s): %s: %v", e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend error (%s): %s", e.Engine, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates an engine call that did not finish within the attempt timeout.
type TimeoutError struct {
	Attempt int
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("translation timed out after %v (attempt %d)", e.Timeout, e.Attempt)
}

// DefinitiveFailure indicates a chunk that failed on every attempt.
// It aborts the whole request.
type DefinitiveFailure struct {
	Attempts int
	Cause    error
}

func (e *DefinitiveFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translation failed after %d attempts: %v", e.Attempts, e.Cause)
	}
	return fmt.Sprintf("translation failed after %d attempts", e.Attempts)
}

func (e *DefinitiveFailure) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
