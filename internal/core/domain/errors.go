package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLink        = errors.New("paste a message link first")
	ErrNoEndpoint       = errors.New("no API endpoint configured (run 'dgrab init --endpoint <url>')")
	ErrNetwork          = errors.New("network error, check your API URL")
	ErrBusy             = errors.New("a fetch is already in progress")
	ErrNoImages         = errors.New("no image URLs to copy")
	ErrIndexOutOfRange  = errors.New("no attachment at that position")
	ErrClipboardFailure = errors.New("failed to copy")
)

// FallbackAPIMessage is shown when a failed response carries no error field
const FallbackAPIMessage = "Something went wrong while calling the API."

// APIError is a non-OK response from the attachments endpoint
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackAPIMessage
}

// UserMessage renders an error the way the front-end reports it to the user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, ErrNetwork):
		return "Network error. Check your API URL."
	case errors.Is(err, ErrEmptyLink):
		return "Paste a Discord message link first."
	case errors.Is(err, ErrClipboardFailure):
		return "Failed to copy"
	default:
		return fmt.Sprint(err)
	}
}
