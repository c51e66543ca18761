package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the backend, carrying the best readable
// message that could be extracted from its body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

// StatusOf returns the HTTP status of a backend error, or 0 when err did not
// come from a backend response.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func errorFromResponse(status int, raw []byte) *Error {
	return &Error{Status: status, Message: extractMessage(status, raw)}
}

// extractMessage tries message, error, detail and errors in that order, then
// falls back to the raw text and finally the status text.
func extractMessage(status int, raw []byte) string {
	statusText := http.StatusText(status)
	text := strings.TrimSpace(string(raw))

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if text != "" {
			return text
		}
		return statusText
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return statusText
	}
	for _, key := range []string{"message", "error", "detail"} {
		if msg := messageFrom(obj[key]); msg != "" {
			return msg
		}
	}
	if errs, ok := obj["errors"]; ok && errs != nil {
		if encoded, err := json.Marshal(errs); err == nil {
			return string(encoded)
		}
	}
	return statusText
}

func messageFrom(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		// {"error": {"message": "..."}} envelopes
		if msg, ok := t["message"].(string); ok {
			return msg
		}
	case []interface{}:
		if len(t) > 0 {
			if encoded, err := json.Marshal(t); err == nil {
				return string(encoded)
			}
		}
	}
	return ""
}
