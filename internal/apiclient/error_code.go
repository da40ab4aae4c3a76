package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/pkg/errorcode"
)

// BackendError is a non-2xx response of the backend. Its cause is one of the errorcode sentinels, so callers
// classify it with `errors.Cause(err) == errorcode.ErrorXxx` and read the message for display.
type BackendError struct {
	StatusCode int
	Message    string
	cause      error
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("el servidor respondió con el estado %d", e.StatusCode)
	}

	return fmt.Sprintf("el servidor respondió con el estado %d: %v", e.StatusCode, e.Message)
}

// Cause returns the errorcode sentinel matching the status code.
func (e *BackendError) Cause() error {
	return e.cause
}

// Unwrap lets errors.Is match the sentinel too.
func (e *BackendError) Unwrap() error {
	return e.cause
}

// GetClassifiedError converts a backend response status into a BackendError. It returns nil for 2xx statuses.
func GetClassifiedError(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	return &BackendError{
		StatusCode: statusCode,
		Message:    parseBackendMessage(body),
		cause:      classifyStatus(statusCode),
	}
}

func classifyStatus(statusCode int) error {
	switch {
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return errorcode.ErrorBadRequest
	case statusCode == http.StatusUnauthorized:
		return errorcode.ErrorUnauthorized
	case statusCode == http.StatusForbidden:
		return errorcode.ErrorForbidden
	case statusCode == http.StatusNotFound:
		return errorcode.ErrorNotFound
	case statusCode == http.StatusConflict:
		return errorcode.ErrorConflict
	case statusCode == http.StatusNotImplemented:
		return errorcode.ErrorNotImplemented
	case statusCode >= 500:
		return errorcode.ErrorBackendUnavailable
	default:
		return errorcode.ErrorBadRequest
	}
}

// The backend reports errors as {"message": "..."} or {"message": ["...", "..."]}, sometimes as {"error": "..."}.
func parseBackendMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Mensaje string          `json:"mensaje"`
		Error   string          `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Message) > 0 {
		var msg string
		if err := json.Unmarshal(payload.Message, &msg); err == nil && msg != "" {
			return msg
		}

		var msgs []string
		if err := json.Unmarshal(payload.Message, &msgs); err == nil && len(msgs) > 0 {
			return strings.Join(msgs, ". ")
		}
	}

	if payload.Mensaje != "" {
		return payload.Mensaje
	}

	return payload.Error
}

// UserMessage returns the message the backend gave for the error, or the fallback if there is none.
func UserMessage(err error, fallback string) string {
	var backendErr *BackendError
	if errors.As(err, &backendErr) && backendErr.Message != "" {
		return backendErr.Message
	}

	return fallback
}
