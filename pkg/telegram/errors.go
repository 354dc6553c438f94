package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingFileID   = errors.New("telegram: missing file_id")
	ErrMissingFilePath = errors.New("telegram: missing file_path")
	ErrFileTooLarge    = errors.New("telegram: file too large")
)

// APIError is a Bot API failure, either ok=false in the body or a non-2xx status.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// IsBlocked reports whether err means the recipient blocked the bot or can no
// longer be reached.
func IsBlocked(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	desc := strings.ToLower(apiErr.Description)
	if strings.Contains(desc, "bot was blocked by the user") || strings.Contains(desc, "user is deactivated") {
		return true
	}
	return apiErr.Code == http.StatusForbidden
}
