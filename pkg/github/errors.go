package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of scan failures
type ErrorType string

const (
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeHTTPStatus ErrorType = "http_status"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeEmptyInput ErrorType = "empty_input"
	ErrorTypeUnexpected ErrorType = "unexpected"
)

// ResetTimeLayout is the local-time layout used when reporting rate limit resets.
const ResetTimeLayout = "2006-01-02 15:04:05"

// maxErrorBodyBytes caps how much of a non-JSON 403 body is echoed back.
const maxErrorBodyBytes = 4 << 10

// ResourceKind names what a request was looking up, so not-found errors read correctly.
type ResourceKind string

const (
	ResourceOrganization ResourceKind = "organization"
	ResourceUser         ResourceKind = "user"
)

func (k ResourceKind) notFoundMessage() string {
	switch k {
	case ResourceOrganization:
		return "Organization not found"
	case ResourceUser:
		return "User not found"
	default:
		return "Resource not found"
	}
}

// Error is the classified outcome of a GitHub request that did not produce a page.
// Message is the human readable reason reported for a user or organization.
type Error struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Cause      error     `json:"-"`
	Resource   string    `json:"resource,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	// ResetAt is set for rate limit errors when the reset time is known.
	ResetAt time.Time `json:"reset_at,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the specified type and message
func NewError(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnexpected for
// errors that were never classified.
func TypeOf(err error) ErrorType {
	var ghErr *Error
	if errors.As(err, &ghErr) {
		return ghErr.Type
	}
	return ErrorTypeUnexpected
}

// classifyResponse turns the result of a go-github call into nil (a 200 page)
// or a classified *Error. Status codes are checked in a fixed priority order
// before the error value go-github produced is inspected.
func classifyResponse(resp *github.Response, err error, kind ResourceKind, resource string) error {
	if resp == nil || resp.Response == nil {
		if err == nil {
			return nil
		}
		return &Error{
			Type:     ErrorTypeNetwork,
			Message:  err.Error(),
			Cause:    err,
			Resource: resource,
		}
	}

	code := resp.StatusCode
	switch {
	case code == http.StatusNotFound:
		return &Error{
			Type:       ErrorTypeNotFound,
			Message:    kind.notFoundMessage(),
			Cause:      err,
			Resource:   resource,
			StatusCode: code,
		}

	case code == http.StatusUnauthorized:
		return &Error{
			Type:       ErrorTypeAuth,
			Message:    "Unauthorized (invalid token?)",
			Cause:      err,
			Resource:   resource,
			StatusCode: code,
		}

	case code == http.StatusForbidden:
		return classifyForbidden(resp, err, resource)

	case code != http.StatusOK:
		return &Error{
			Type:       ErrorTypeHTTPStatus,
			Message:    fmt.Sprintf("HTTP %d", code),
			Cause:      err,
			Resource:   resource,
			StatusCode: code,
		}
	}

	if err != nil {
		// A 200 whose body could not be decoded.
		return &Error{
			Type:       ErrorTypeUnexpected,
			Message:    err.Error(),
			Cause:      err,
			Resource:   resource,
			StatusCode: code,
		}
	}

	return nil
}

// classifyForbidden separates rate limiting from plain permission failures.
func classifyForbidden(resp *github.Response, err error, resource string) *Error {
	msg := forbiddenMessage(resp.Response, err)

	if !strings.Contains(strings.ToLower(msg), "rate limit") {
		return &Error{
			Type:       ErrorTypePermission,
			Message:    msg,
			Cause:      err,
			Resource:   resource,
			StatusCode: http.StatusForbidden,
		}
	}

	ghErr := &Error{
		Type:       ErrorTypeRateLimit,
		Cause:      err,
		Resource:   resource,
		StatusCode: http.StatusForbidden,
	}

	resetAt, ok := parseResetHeader(resp.Header.Get("X-RateLimit-Reset"))
	if !ok {
		// go-github refuses requests locally once it has seen an exhausted
		// quota; those synthetic responses carry no headers but do carry the
		// recorded reset time.
		var rateErr *github.RateLimitError
		if errors.As(err, &rateErr) && !rateErr.Rate.Reset.Time.IsZero() {
			resetAt, ok = rateErr.Rate.Reset.Time, true
		}
	}

	if ok {
		ghErr.ResetAt = resetAt
		ghErr.Message = fmt.Sprintf("API Rate Limit Exceeded; resets at %s", FormatResetTime(resetAt))
	} else {
		ghErr.Message = "API Rate Limit Exceeded; resets at unknown"
	}

	return ghErr
}

// forbiddenMessage extracts the reason GitHub gave for a 403. The JSON
// "message" field wins, then the raw body when it is not JSON at all, then a
// generic label.
func forbiddenMessage(resp *http.Response, err error) string {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)

	var msg string
	switch {
	case errors.As(err, &rateErr):
		msg = rateErr.Message
	case errors.As(err, &abuseErr):
		msg = abuseErr.Message
	case errors.As(err, &respErr):
		msg = respErr.Message
	}
	if msg != "" {
		return msg
	}

	// go-github re-populates the body after reading the error response.
	if resp != nil && resp.Body != nil {
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if readErr == nil {
			raw := strings.TrimSpace(string(data))
			if raw != "" && !json.Valid(data) {
				return raw
			}
		}
	}

	return "Forbidden (403)"
}

// parseResetHeader parses an X-RateLimit-Reset value (epoch seconds).
func parseResetHeader(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.Unix(secs, 0), true
}

// FormatResetTime renders a rate limit reset in local time.
func FormatResetTime(t time.Time) string {
	return t.Local().Format(ResetTimeLayout)
}
