package linkshield

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated is reported when the backend rejects the presented
	// (or absent) credential. It is always wrapped inside an [*APIError].
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentialPair is reported by Login when token or principal
	// is empty; the durable store never holds a partial pair.
	ErrInvalidCredentialPair = errors.New("token and principal must both be non-empty")
	// ErrClientNotReady is reported when an operation is invoked on a nil or
	// unbuilt client.
	ErrClientNotReady = errors.New("client not initialized")
)

// APIError is a non-2xx response from the LinkShield backend. Status and the
// raw body are preserved verbatim so callers can present them; Message is the
// backend's "error" field when the body carries one.
type APIError struct {
	Status  int
	Body    []byte
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("linkshield: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("linkshield: status %d", e.Status)
}

// Unwrap makes errors.Is(err, ErrUnauthenticated) hold exactly when the
// backend answered with an unauthenticated status.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status: status,
		Body:   body,
	}

	// The backend reports errors as {"error": "..."}.
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = payload.Message
		}
	}

	return apiErr
}
