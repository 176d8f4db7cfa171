package api

import (
	"testing"
	"time"

	"encore/testutil"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
		assert.NoError(t, VerifyWebhook(testutil.WebhookSecret, h, body))
	})

	t.Run("one of several signatures", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
		h.Set("svix-signature", "v1,Zm9v v2,bar "+h.Get("svix-signature"))
		assert.NoError(t, VerifyWebhook(testutil.WebhookSecret, h, body))
	})

	t.Run("tampered body", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
		assert.ErrorIs(t, VerifyWebhook(testutil.WebhookSecret, h, []byte(`{"type":"user.deleted"}`)), ErrInvalidSignature)
	})

	t.Run("other secret", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, "whsec_b3RoZXItc2VjcmV0", "msg_1", now, body)
		assert.ErrorIs(t, VerifyWebhook(testutil.WebhookSecret, h, body), ErrInvalidSignature)
	})

	t.Run("message id is signed", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
		h.Set("svix-id", "msg_2")
		assert.ErrorIs(t, VerifyWebhook(testutil.WebhookSecret, h, body), ErrInvalidSignature)
	})

	t.Run("within tolerance", func(t *testing.T) {
		for _, skew := range []time.Duration{-4 * time.Minute, 4 * time.Minute} {
			h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now.Add(skew), body)
			assert.NoError(t, VerifyWebhook(testutil.WebhookSecret, h, body), skew.String())
		}
	})

	t.Run("stale or future", func(t *testing.T) {
		for _, skew := range []time.Duration{-10 * time.Minute, 10 * time.Minute} {
			h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now.Add(skew), body)
			assert.ErrorIs(t, VerifyWebhook(testutil.WebhookSecret, h, body), ErrInvalidSignature, skew.String())
		}
	})

	t.Run("missing headers", func(t *testing.T) {
		for _, name := range []string{"svix-id", "svix-timestamp", "svix-signature"} {
			h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
			h.Del(name)
			assert.ErrorIs(t, VerifyWebhook(testutil.WebhookSecret, h, body), ErrInvalidSignature, name)
		}
	})

	t.Run("bad timestamp", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
		h.Set("svix-timestamp", "yesterday")
		assert.ErrorIs(t, VerifyWebhook(testutil.WebhookSecret, h, body), ErrInvalidSignature)
	})

	t.Run("malformed secret", func(t *testing.T) {
		h := testutil.WebhookHeaders(t, testutil.WebhookSecret, "msg_1", now, body)
		assert.ErrorIs(t, VerifyWebhook("whsec_!!!not-base64", h, body), ErrInvalidSignature)
	})
}
