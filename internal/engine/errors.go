package engine

import (
	"errors"
	"strings"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/remote"
)

// ErrorText turns a failure into a banner message: the server's message when
// it sent one, the error text otherwise, fallback as a last resort.
func ErrorText(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		if msg := strings.TrimSpace(apiErr.UserMessage()); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func unauthorized(err error) bool {
	var apiErr *remote.APIError
	return errors.As(err, &apiErr) && apiErr.Unauthorized()
}
