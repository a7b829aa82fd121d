package integrations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	igerr "github.com/RaiVaibhav/IGitt/pkg/errors"
)

// APIError is returned for every failed exchange with a hosting API.
//
// For non-2xx responses StatusCode and Body hold the provider's status and
// raw response body, unmodified. For transport failures StatusCode is zero
// and Err holds the cause.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// Message extracts the human-readable message from a JSON error body
// (the "message" field on both GitHub and GitLab, or GitLab's "error").
// The raw body is returned when it is not such an object.
func (e *APIError) Message() string {
	var payload struct {
		Message any    `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &payload) != nil {
		return e.Body
	}
	switch m := payload.Message.(type) {
	case string:
		return m
	case nil:
		if payload.Error != "" {
			return payload.Error
		}
		return e.Body
	default:
		// GitLab validation errors: {"message": {"field": ["is invalid"]}}
		b, _ := json.Marshal(m)
		return string(b)
	}
}

// Code classifies the error for [igerr.Is].
func (e *APIError) Code() igerr.Code {
	switch e.StatusCode {
	case 0:
		return igerr.ErrCodeNetwork
	case http.StatusNotFound:
		return igerr.ErrCodeNotFound
	case http.StatusUnauthorized:
		return igerr.ErrCodeUnauthorized
	case http.StatusForbidden:
		return igerr.ErrCodeForbidden
	case http.StatusConflict:
		return igerr.ErrCodeConflictStatus
	}
	if e.StatusCode >= 500 {
		return igerr.ErrCodeNetwork
	}
	return igerr.ErrCodeInvalidInput
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// *APIError from a completed exchange.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether err is a 409 response.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}
