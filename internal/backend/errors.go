package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedResponse is returned when a successful response does not match
// the schema expected for the endpoint.
var ErrMalformedResponse = errors.New("malformed backend response")

// ErrUnavailable marks calls that never got an HTTP answer.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a 4xx/5xx answer from the backend. Message is the backend's own
// text so it can be shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.NotFound()
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// messagePaths are tried in order against an error body.
var messagePaths = []string{
	"message",
	"error.message",
	"error",
	"detail",
	"errors.0.message",
	"errors.0",
}

func extractMessage(statusCode int, body []byte) string {
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		for _, path := range messagePaths {
			if v := parsed.Get(path); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				return v.String()
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 500 {
		return text
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
