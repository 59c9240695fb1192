package backend

import (
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx response from the backend API.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// DecodeError reports a response body that is not valid JSON. The raw body
// is kept so the passthrough operation can fall back to a text envelope.
type DecodeError struct {
	Raw []byte
	Err error
}

func (e *DecodeError) Error() string {
	return "invalid JSON in response body: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
