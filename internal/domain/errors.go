package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCaptureUnavailable = errors.New("no capture device available")
	ErrCaptureTooShort    = errors.New("recording captured no frames")
	ErrMalformedResponse  = errors.New("malformed response body")
	ErrMissingCredential  = errors.New("chatbot api key is not configured")
	ErrNoReply            = errors.New("backend returned no reply")
	ErrEmptyMessage       = errors.New("message is empty")
)

// TransportError covers network failures, timeouts and non-success statuses
// from either backend.
type TransportError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type MalformedAudioError struct {
	Reason string
}

func (e *MalformedAudioError) Error() string {
	return "malformed audio: " + e.Reason
}
