package client

import "fmt"

// APIError is a non-2xx response from the gallery API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gallery api: %d %s", e.StatusCode, e.Message)
}
