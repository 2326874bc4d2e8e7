package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/msctl-dev/msctl/internal/models"
)

// ErrUnauthorized is returned instead of a response when the server answered 401.
// By the time a caller sees it the stored token has already been cleared.
var ErrUnauthorized = errors.New("request aborted: not authenticated")

// ErrEmptyBody is returned when a JSON response was expected but the body was empty
var ErrEmptyBody = errors.New("empty response body")

// Fallback messages used when the server does not supply a detail
const (
	fallbackLoginMessage    = "login failed"
	fallbackRegisterMessage = "registration failed"
	fallbackRequestMessage  = "request failed"
)

// APIError is a non-success response carrying the server's detail message
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// newAPIError reads the body of a failed response and extracts its {detail} field.
// Unreadable or unparseable bodies, and empty details, fall back to fallback.
func newAPIError(resp *http.Response, fallback string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Detail: fallback}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	if detail := extractDetail(body); detail != "" {
		apiErr.Detail = detail
	}
	return apiErr
}

func extractDetail(body []byte) string {
	var envelope models.ErrorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	raw := bytes.TrimSpace(envelope.Detail)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err == nil {
		return detail
	}

	// Validation errors arrive as a list of objects; keep them verbatim.
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
