package reporting

import (
	"testing"

	"encore/config"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrubEventRemovesPII(t *testing.T) {
	event := &sentry.Event{
		Request: &sentry.Request{
			URL:     "https://api.example.com/reviews",
			Cookies: "__session=abc",
			Headers: map[string]string{
				"Authorization": "Bearer secret",
				"Cookie":        "__session=abc",
				"User-Agent":    "test",
				"X-Real-Ip":     "10.0.0.1",
			},
		},
		User: sentry.User{
			ID:        "user_1",
			Email:     "someone@example.com",
			IPAddress: "10.0.0.1",
			Username:  "someone",
		},
	}

	out := ScrubEvent(event, nil)
	require.NotNil(t, out)

	assert.Empty(t, out.Request.Cookies)
	assert.NotContains(t, out.Request.Headers, "Authorization")
	assert.NotContains(t, out.Request.Headers, "Cookie")
	assert.NotContains(t, out.Request.Headers, "X-Real-Ip")
	assert.Equal(t, "test", out.Request.Headers["User-Agent"])

	assert.Equal(t, "user_1", out.User.ID)
	assert.Empty(t, out.User.Email)
	assert.Empty(t, out.User.IPAddress)
	assert.Empty(t, out.User.Username)
}

func TestScrubEventWithoutRequest(t *testing.T) {
	out := ScrubEvent(&sentry.Event{Message: "boom"}, nil)
	require.NotNil(t, out)
	assert.Equal(t, "boom", out.Message)

	assert.Nil(t, ScrubEvent(nil, nil))
}

func TestInitWithoutDSNIsNoop(t *testing.T) {
	require.NoError(t, Init(config.Sentry{}, "test"))
	assert.False(t, enabled)
}
