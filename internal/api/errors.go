package api

import (
	"fmt"
	"strings"
)

// Error is a backend-reported failure. Code carries the machine-readable
// error identifier from the response body, when the backend supplied one.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	message := strings.TrimSpace(e.Message)
	code := strings.TrimSpace(e.Code)
	switch {
	case message != "" && code != "":
		return fmt.Sprintf("%s (%s)", message, code)
	case message != "":
		return message
	case code != "":
		return code
	default:
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
}

// ErrorCode returns the backend error identifier. Consumers match it
// structurally to translate known codes into friendlier text.
func (e *Error) ErrorCode() string {
	return strings.TrimSpace(e.Code)
}
