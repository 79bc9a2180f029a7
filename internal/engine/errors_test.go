package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestEngineError_Is(t *testing.T) {
	err := NewEngineError(ErrCodeTimeout, "waiting for browser", ErrTimeout)

	if !errors.Is(err, ErrTimeout) {
		t.Error("Expected error to match its underlying sentinel")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err), &EngineError{Code: ErrCodeTimeout}) {
		t.Error("Expected wrapped error to match by code")
	}
	if errors.Is(err, &EngineError{Code: ErrCodeParseError}) {
		t.Error("Expected different code not to match")
	}
}

func TestEngineError_Retryable(t *testing.T) {
	err := NewEngineError(ErrCodeBrowserCrash, "launch failed", nil)
	if err.Retryable() {
		t.Error("Expected new errors to be non-retryable")
	}
	if !err.WithRetry().Retryable() {
		t.Error("Expected WithRetry to mark the error retryable")
	}
}

func TestEngineError_Message(t *testing.T) {
	err := NewEngineError(ErrCodeNetworkError, "failed to fetch URL", errors.New("connection refused")).
		WithDetail("url", "https://example.com")

	if got := err.Error(); got != "NETWORK_ERROR: failed to fetch URL: connection refused" {
		t.Errorf("Unexpected message %q", got)
	}
	if err.Details["url"] != "https://example.com" {
		t.Errorf("Expected url detail, got %v", err.Details)
	}
}
