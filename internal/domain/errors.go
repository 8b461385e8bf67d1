package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by service functions when the requested step does
// not exist in the loaded trip.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. a missing location id on upload).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrFileNotFound is returned when an expected export file or directory is missing.
var ErrFileNotFound = errors.New("file not found")

// ErrParse is returned for malformed JSON, values of the wrong type and
// unrecognised date formats.
var ErrParse = errors.New("parse error")

// ErrMissingField is the sentinel behind MissingFieldError.
var ErrMissingField = errors.New("missing field")

// ErrNetwork is returned when an upload fails in transport or the server
// rejects it. Handlers should map this to HTTP 502.
var ErrNetwork = errors.New("network error")

// MissingFieldError reports a required key absent from an entity's JSON object.
type MissingFieldError struct {
	Entity string
	Key    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s: required key %q", ErrMissingField, e.Entity, e.Key)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// UploadError carries the status and body of a rejected upload.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server returned %d", ErrNetwork, e.StatusCode)
	}
	return fmt.Sprintf("%s: server returned %d: %s", ErrNetwork, e.StatusCode, e.Body)
}

func (e *UploadError) Unwrap() error { return ErrNetwork }
