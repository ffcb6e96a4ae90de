package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any *APIError with status 401 or 403.
var ErrUnauthorized = errors.New("backend rejected credentials")

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// IsAuth reports whether the backend refused the token.
func (e *APIError) IsAuth() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Is lets errors.Is(err, ErrUnauthorized) match auth failures.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.IsAuth()
}

// UserMessage is the text shown to the admin for err.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Status)
	}
	return "The server could not be reached. Please try again."
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
