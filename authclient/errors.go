package authclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches any *AuthError.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionTerminated is returned when the session could not be refreshed. The
	// stored credentials have been cleared and the user must sign in again.
	ErrSessionTerminated = errors.New("session expired, please sign in again")

	errNoRefreshToken = errors.New("no refresh token available")
	errSessionCleared = errors.New("session already cleared by an earlier refresh")
)

// maxErrorBody bounds how much of a response body is quoted in error messages.
const maxErrorBody = 200

// AuthError reports an HTTP 401 from the server.
type AuthError struct {
	Body []byte
}

func (e *AuthError) Error() string {
	if len(e.Body) == 0 {
		return "unauthorized (401)"
	}
	return "unauthorized (401): " + snippet(e.Body)
}

func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }

// ServerError reports a non-2xx, non-401 response.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if len(e.Body) > 0 {
		msg += ": " + snippet(e.Body)
	}
	return msg
}

// NetworkError reports a transport failure, including a per-attempt timeout.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RefreshError is the outcome of a failed refresh. Client absorbs it into
// ErrSessionTerminated; it only surfaces through Events.RefreshFailed and logs.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string { return "token refresh failed: " + e.Err.Error() }

func (e *RefreshError) Unwrap() error { return e.Err }

func snippet(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
