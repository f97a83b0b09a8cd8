package api

import (
	"encoding/json"
	"fmt"
)

// RequestError is a non-success response from the backend.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend request failed: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx) are
// considered permanent.
func (e *RequestError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// newRequestError decodes an error body. The backend reports either
// {"detail": "..."} (FastAPI style) or {"error": "..."}; anything else is
// passed through raw.
func newRequestError(status int, body []byte) *RequestError {
	var decoded struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	msg := string(body)
	if err := json.Unmarshal(body, &decoded); err == nil {
		if decoded.Detail != "" {
			msg = decoded.Detail
		} else if decoded.Error != "" {
			msg = decoded.Error
		}
	}
	return &RequestError{StatusCode: status, Message: msg}
}
