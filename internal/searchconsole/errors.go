package searchconsole

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Kind classifies a failure.
type Kind string

// Error kinds.
const (
	KindValidation       Kind = "validation"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindUnauthenticated  Kind = "unauthenticated"
	KindRateLimited      Kind = "rate_limited"
	KindBadRequest       Kind = "bad_request"
	KindUnknown          Kind = "unknown"
)

// User facing messages for the fixed kinds.
const (
	msgPermissionDenied = "Permission denied. Please check that you have access to this site in Google Search Console."
	msgNotFound         = "Resource not found. Please verify the site URL or resource path."
	msgUnauthenticated  = "Authentication failed. Please re-authenticate with Google."
	msgRateLimited      = "Rate limit exceeded. Please try again later."
)

// CategorizedError is a failure tagged with a Kind and a message meant for
// the end user. Err holds the original failure, if any.
type CategorizedError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CategorizedError) Error() string {
	return e.Message
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewValidationError reports an argument rejected before any API call.
func NewValidationError(format string, args ...any) *CategorizedError {
	return &CategorizedError{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewAuthError reports a credential that could not be resolved before the
// API call.
func NewAuthError(cause error) *CategorizedError {
	return &CategorizedError{
		Kind:    KindUnauthenticated,
		Message: msgUnauthenticated,
		Err:     cause,
	}
}

// Categorize maps err onto a CategorizedError.
//
// A *CategorizedError anywhere in the chain is returned as is. A
// *googleapi.Error with a known status code is classified by that code.
// Everything else is classified by the first of "403", "404", "401", "429"
// and "400" found in the error text, in that order.
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	var cerr *CategorizedError
	if errors.As(err, &cerr) {
		return cerr
	}

	text := err.Error()

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if kind, ok := kindForStatus(apiErr.Code); ok {
			return newCategorized(kind, text, err)
		}
	}

	return newCategorized(kindForText(text), text, err)
}

// KindOf returns the Kind of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Categorize(err).Kind
}

// Message returns the user facing message for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return Categorize(err).Message
}

func kindForStatus(code int) (Kind, bool) {
	switch code {
	case http.StatusForbidden:
		return KindPermissionDenied, true
	case http.StatusNotFound:
		return KindNotFound, true
	case http.StatusUnauthorized:
		return KindUnauthenticated, true
	case http.StatusTooManyRequests:
		return KindRateLimited, true
	case http.StatusBadRequest:
		return KindBadRequest, true
	}
	return "", false
}

func kindForText(text string) Kind {
	switch {
	case strings.Contains(text, "403"):
		return KindPermissionDenied
	case strings.Contains(text, "404"):
		return KindNotFound
	case strings.Contains(text, "401"):
		return KindUnauthenticated
	case strings.Contains(text, "429"):
		return KindRateLimited
	case strings.Contains(text, "400"):
		return KindBadRequest
	}
	return KindUnknown
}

func newCategorized(kind Kind, text string, cause error) *CategorizedError {
	var msg string
	switch kind {
	case KindPermissionDenied:
		msg = msgPermissionDenied
	case KindNotFound:
		msg = msgNotFound
	case KindUnauthenticated:
		msg = msgUnauthenticated
	case KindRateLimited:
		msg = msgRateLimited
	case KindBadRequest:
		msg = "Invalid request: " + text
	default:
		kind = KindUnknown
		msg = "An error occurred: " + text
	}
	return &CategorizedError{Kind: kind, Message: msg, Err: cause}
}
