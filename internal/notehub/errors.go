package notehub

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// ErrNotFound matches (via errors.Is) any 404 response.
var ErrNotFound = errors.New("note not found")

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrNotFound) true for 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

func newAPIError(resp *http.Response) *APIError {
	e := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		e.Message = payload.Message
	}
	if e.Message == "" {
		e.Message = resp.Status
	}
	return e
}
