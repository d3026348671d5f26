package discord

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies upstream failures so callers can tell "re-login" apart
// from "transient, try again later".
type ErrorKind int

const (
	KindOther ErrorKind = iota
	// KindAuth covers 401/403: the token is not accepted.
	KindAuth
	// KindRateLimited covers 429.
	KindRateLimited
	// KindServer covers 5xx.
	KindServer
)

// ErrRefreshRejected means Discord refused the refresh token itself
// (invalid_grant). Silent refresh is impossible; the user has to go through
// the consent flow again.
var ErrRefreshRejected = errors.New("discord: refresh token rejected")

// APIError is a non-2xx response from the Discord API.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("discord: authentication failed (status %d)", e.StatusCode)
	case KindRateLimited:
		return fmt.Sprintf("discord: rate limited (status %d)", e.StatusCode)
	case KindServer:
		return fmt.Sprintf("discord: server error (status %d)", e.StatusCode)
	default:
		return fmt.Sprintf("discord: unexpected status %d: %s", e.StatusCode, e.Body)
	}
}

// ClassifyStatus maps an HTTP status code to an error kind.
func ClassifyStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return KindAuth
	case statusCode == http.StatusTooManyRequests:
		return KindRateLimited
	case statusCode >= 500:
		return KindServer
	default:
		return KindOther
	}
}

// IsAuthError reports whether err is an APIError carrying an auth failure.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}
