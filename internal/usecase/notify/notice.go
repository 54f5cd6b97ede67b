// Package notify carries user-facing notices ("Gespeichert!", "Land nicht gefunden", ...)
// from the use cases to whoever presents them.
//
// Use cases emit notices through a Notifier. The HTTP layer installs a Collector in the
// request context so that the notices of one request can be returned in its response body.
package notify

import (
	"context"
	"errors"

	"newsfeed-hub/internal/domain/entity"
)

// Kind distinguishes success from failure notices.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is one user-facing message.
type Notice struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Success builds a success notice.
func Success(title, description string) Notice {
	return Notice{Kind: KindSuccess, Title: title, Description: description}
}

// Failure builds an error notice.
func Failure(title, description string) Notice {
	return Notice{Kind: KindError, Title: title, Description: description}
}

// msgWriteFailed replaces error details the user must not see.
const msgWriteFailed = "Speichern fehlgeschlagen"

// FailureFor builds the error notice of a failed write. Validation messages and
// permission errors reach the user; any other error is reduced to a fixed text.
func FailureFor(prefix string, err error) Notice {
	var vErr *entity.ValidationError
	var detail string
	switch {
	case errors.As(err, &vErr):
		detail = vErr.Message
	case errors.Is(err, entity.ErrForbidden):
		detail = "Keine Berechtigung"
	case prefix != "":
		return Failure("Fehler", prefix)
	default:
		return Failure("Fehler", msgWriteFailed)
	}
	if prefix != "" {
		detail = prefix + ": " + detail
	}
	return Failure("Fehler", detail)
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Send delivers n through notifier when one is configured.
func Send(ctx context.Context, notifier Notifier, n Notice) {
	if notifier == nil {
		return
	}
	notifier.Notify(ctx, n)
}
