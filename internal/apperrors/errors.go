package apperrors

import (
	"errors"
	"net/http"
)

// ValidationError reports a missing or blank required input.
type ValidationError struct {
	Param string
}

func (e *ValidationError) Error() string {
	return e.Param + " parameter is required"
}

// Required builds a ValidationError for the named parameter.
func Required(param string) error {
	return &ValidationError{Param: param}
}

// UpstreamError reports a failed third-party call. Status and Message carry what the
// provider returned, when it returned anything.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "upstream request failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusCode is the status to relay to callers: the provider's error status when it
// sent one, otherwise 500.
func (e *UpstreamError) StatusCode() int {
	if e.Status >= http.StatusBadRequest && e.Status <= 599 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// LocalStorageError reports persisted client state that could not be decoded.
type LocalStorageError struct {
	Key string
	Err error
}

func (e *LocalStorageError) Error() string {
	return "corrupt stored value for " + e.Key + ": " + e.Err.Error()
}

func (e *LocalStorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// AsUpstream unwraps an UpstreamError from err.
func AsUpstream(err error) (*UpstreamError, bool) {
	var u *UpstreamError
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}
