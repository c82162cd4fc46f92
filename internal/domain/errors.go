package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLocator      = errors.New("invalid locator")
	ErrVerbNotFound        = errors.New("verb not found")
	ErrNoVerbSelected      = errors.New("no verb selected")
	ErrNavigationCancelled = errors.New("navigation cancelled")
	ErrMissingVerbName     = errors.New("missing verb name")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrSecretNotFound      = errors.New("secret not found")
)

// StatusError is a non-200 answer from the world server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, body)
}
