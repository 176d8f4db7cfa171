// Package reporting forwards unexpected errors to Sentry with personal data removed.
package reporting

import (
	"net/http"
	"strings"
	"time"

	"encore/config"

	"github.com/getsentry/sentry-go"
)

var enabled bool

// Headers that must never leave the server
var sensitiveHeaders = []string{"authorization", "cookie", "set-cookie", "x-forwarded-for", "x-real-ip", "svix-signature"}

func Init(cfg config.Sentry, env string) error {
	if cfg.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:            cfg.DSN,
		Environment:    env,
		SampleRate:     cfg.SampleRate,
		SendDefaultPII: false,
		BeforeSend:     ScrubEvent,
	})

	if err != nil {
		return err
	}

	enabled = true
	return nil
}

// ScrubEvent strips auth headers, cookies and user identifiers other than the id.
func ScrubEvent(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event == nil {
		return nil
	}

	if event.Request != nil {
		event.Request.Cookies = ""

		for k := range event.Request.Headers {
			for _, h := range sensitiveHeaders {
				if strings.EqualFold(k, h) {
					delete(event.Request.Headers, k)
				}
			}
		}
	}

	event.User.Email = ""
	event.User.IPAddress = ""
	event.User.Username = ""

	return event
}

// CaptureError reports err with the operation that produced it.
func CaptureError(err error, r *http.Request, opId string) {
	if !enabled || err == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if r != nil {
			scope.SetRequest(r)
		}
		scope.SetTag("operation", opId)
		hub.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value.
func CapturePanic(v any, r *http.Request, opId string) {
	if !enabled || v == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		if r != nil {
			scope.SetRequest(r)
		}
		scope.SetTag("operation", opId)
		hub.Recover(v)
	})
}

// CaptureWarning reports a handled but noteworthy condition.
func CaptureWarning(msg string) {
	if !enabled {
		return
	}

	sentry.CaptureMessage(msg)
}

func Flush() {
	if enabled {
		sentry.Flush(2 * time.Second)
	}
}
