// Package reqctx carries per-request identity through a crawl attempt.
package reqctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type key int

const requestKey key = 0

// RequestContext identifies one crawl request across its attempts
type RequestContext struct {
	RequestID string
	URL       string
	Attempt   int
	StartTime time.Time
}

// WithRequestContext attaches request identity to ctx.
// An empty id gets a fresh UUID.
func WithRequestContext(ctx context.Context, id, url string, attempt int) context.Context {
	if id == "" {
		id = NewID()
	}
	return context.WithValue(ctx, requestKey, &RequestContext{
		RequestID: id,
		URL:       url,
		Attempt:   attempt,
		StartTime: time.Now(),
	})
}

// GetRequestContext returns the request identity stored in ctx, if any
func GetRequestContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{
		RequestID: "unknown",
		StartTime: time.Now(),
	}
}

// NewID returns a random request identifier
func NewID() string {
	return uuid.NewString()
}

// RequestError wraps an error with request context
type RequestError struct {
	RequestID string
	URL       string
	Err       error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.RequestID, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError creates a new RequestError from context
func NewRequestError(ctx context.Context, err error) error {
	rc := GetRequestContext(ctx)
	return &RequestError{
		RequestID: rc.RequestID,
		URL:       rc.URL,
		Err:       err,
	}
}
