package reqctx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRequestContext(t *testing.T) {
	ctx := WithRequestContext(context.Background(), "", "https://example.com/store", 2)
	rc := GetRequestContext(ctx)

	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, "https://example.com/store", rc.URL)
	assert.Equal(t, 2, rc.Attempt)
}

func TestGetRequestContext_Missing(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestContext(context.Background()).RequestID)
}

func TestNewRequestError_Unwraps(t *testing.T) {
	base := errors.New("navigation failed")
	ctx := WithRequestContext(context.Background(), "req-1", "https://example.com", 0)

	err := NewRequestError(ctx, base)

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "req-1")
	assert.Contains(t, err.Error(), "https://example.com")
}
