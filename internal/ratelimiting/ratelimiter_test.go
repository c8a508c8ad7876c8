package ratelimiting

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockedRateLimiter struct {
	consumeFunc func(key string) bool
}

func (m *mockedRateLimiter) Consume(key string) bool {
	return m.consumeFunc(key)
}

func TestTokenBucketRateLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
	t.Parallel()

	rateLimiter, stop := NewTokenBucketRateLimiter(1, 2)
	t.Cleanup(stop)

	assert.True(t, rateLimiter.Consume("user2"))

	// Burst of 2
	assert.True(t, rateLimiter.Consume("user1"))
	assert.True(t, rateLimiter.Consume("user1"))
	assert.False(t, rateLimiter.Consume("user1"))

	time.Sleep(1100 * time.Millisecond)

	// Refill rate of 1
	assert.True(t, rateLimiter.Consume("user1"))
	assert.False(t, rateLimiter.Consume("user1"))

	// Burst of 2 - even after refill
	assert.True(t, rateLimiter.Consume("user3"))
	assert.True(t, rateLimiter.Consume("user3"))
	assert.False(t, rateLimiter.Consume("user3"))

	assert.True(t, rateLimiter.Consume("user2"))
	assert.True(t, rateLimiter.Consume("user2"))
	assert.False(t, rateLimiter.Consume("user2"))
}

func TestIPKeyFunc(t *testing.T) {
	t.Parallel()

	cases := []struct {
		remoteAddr string
		expected   string
	}{
		{remoteAddr: "123.123.123.123", expected: "ip: 123.123.123.123"},
		{remoteAddr: "123.123.123.123:4567", expected: "ip: 123.123.123.123"},
		{remoteAddr: "[2001:db8::1]:4567", expected: "ip: 2001:db8::/64"},
		{remoteAddr: "[2001:db8::ffff:1234]:4567", expected: "ip: 2001:db8::/64"},
		{remoteAddr: "[2001:db8:0:1::1]:4567", expected: "ip: 2001:db8:0:1::/64"},
		{remoteAddr: "[::ffff:10.0.0.1]:4567", expected: "ip: 10.0.0.1"},
		{remoteAddr: "not-an-ip", expected: "ip: not-an-ip"},
		{remoteAddr: "", expected: "ip: "},
	}

	for _, c := range cases {
		t.Run(c.remoteAddr, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, c.expected, IPKeyFunc(&http.Request{RemoteAddr: c.remoteAddr}))
		})
	}
}

func TestUserIDKeyFunc(t *testing.T) {
	t.Parallel()

	withHeader := func(userID string) *http.Request {
		r := &http.Request{Header: http.Header{}}
		if userID != "" {
			r.Header.Set("X-User-Id", userID)
		}
		return r
	}

	require.Equal(t, "user-id: <missing>", UserIDKeyFunc(withHeader("")))
	require.Equal(t, "user-id: 01234567-89ab-cdef-0123-456789abcdef", UserIDKeyFunc(withHeader("01234567-89ab-cdef-0123-456789abcdef")))

	// Spellings of the same id share a key
	require.Equal(t, "user-id: 01234567-89ab-cdef-0123-456789abcdef", UserIDKeyFunc(withHeader("0123456789ABCDEF0123456789ABCDEF")))
	require.Equal(t, "user-id: not-a-uuid", UserIDKeyFunc(withHeader("not-a-uuid")))

	// Long ids are truncated
	require.Equal(t, "user-id: "+strings.Repeat("a", 50), UserIDKeyFunc(withHeader(strings.Repeat("a", 80))))
}

func TestRequestBasedRateLimiter(t *testing.T) {
	t.Parallel()

	var expectedKey string
	var allowed bool
	rateLimiter := &mockedRateLimiter{
		consumeFunc: func(key string) bool {
			t.Helper()
			assert.Equal(t, expectedKey, key)
			return allowed
		},
	}
	requestRateLimiter := NewRequestBasedRateLimiter(rateLimiter, IPKeyFunc)

	expectedKey = "ip: 1.1.1.1"
	allowed = true
	assert.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))
	assert.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1:80"}))
	allowed = false
	assert.False(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))

	expectedKey = "ip: 2.1.1.1"
	allowed = true
	assert.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "2.1.1.1"}))
	assert.Equal(t, "ip: 2.1.1.1", requestRateLimiter.KeyFor(&http.Request{RemoteAddr: "2.1.1.1"}))
}
