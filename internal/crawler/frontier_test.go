package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T, u string) *Request {
	t.Helper()
	r, err := NewRequest(u)
	require.NoError(t, err)
	return r
}

func TestFrontier_DedupAndOrder(t *testing.T) {
	f := newFrontier(0)

	added := f.add(
		mustRequest(t, "https://shop.test/a"),
		mustRequest(t, "https://SHOP.test/a#details"),
		mustRequest(t, "https://shop.test/b"),
	)
	assert.Equal(t, 2, added)

	r, ok := f.next()
	require.True(t, ok)
	assert.Equal(t, "https://shop.test/a", r.URL)

	// Already seen keys stay rejected after being processed
	assert.Zero(t, f.add(mustRequest(t, "https://shop.test/a")))

	r, ok = f.next()
	require.True(t, ok)
	assert.Equal(t, "https://shop.test/b", r.URL)

	f.done()
	f.done()
	_, ok = f.next()
	assert.False(t, ok)
}

func TestFrontier_Limit(t *testing.T) {
	f := newFrontier(1)
	f.add(mustRequest(t, "https://shop.test/a"), mustRequest(t, "https://shop.test/b"))

	_, ok := f.next()
	require.True(t, ok)
	_, ok = f.next()
	assert.False(t, ok)
}

func TestFrontier_CloseWakesWaiters(t *testing.T) {
	f := newFrontier(0)
	f.add(mustRequest(t, "https://shop.test/a"))
	_, ok := f.next()
	require.True(t, ok)

	done := make(chan bool)
	go func() {
		_, ok := f.next()
		done <- ok
	}()

	f.close()
	assert.False(t, <-done)
}
