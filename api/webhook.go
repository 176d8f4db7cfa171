package api

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifyWebhook checks the svix-id, svix-timestamp and svix-signature headers
// of an identity provider delivery against a whsec_ secret. Timestamps more
// than five minutes off are rejected.
func VerifyWebhook(secret string, h http.Header, body []byte) error {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return fmt.Errorf("%w: bad secret: %v", ErrInvalidSignature, err)
	}

	if err := wh.Verify(body, h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return nil
}
