package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// uniqueViolationCode is the Postgres error code the backend relays when a
// row insert trips a unique constraint.
const uniqueViolationCode = "23505"

// APIError is a non-2xx response from the identity backend, decoded far
// enough to classify it. Message is what the backend said; it is safe to
// surface to clients.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity backend: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("identity backend: %s (status %d)", e.Message, e.StatusCode)
}

// decodeAPIError builds an APIError from a failed response body. The backend
// speaks two dialects: auth errors carry msg/error_description, row-storage
// errors carry code/message. Code may arrive as a string or a number.
func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var payload struct {
		Code             json.RawMessage `json:"code"`
		Msg              string          `json:"msg"`
		Message          string          `json:"message"`
		Err              string          `json:"error"`
		ErrorCode        string          `json:"error_code"`
		ErrorDescription string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	switch {
	case payload.Msg != "":
		apiErr.Message = payload.Msg
	case payload.Message != "":
		apiErr.Message = payload.Message
	case payload.ErrorDescription != "":
		apiErr.Message = payload.ErrorDescription
	case payload.Err != "":
		apiErr.Message = payload.Err
	}

	if payload.ErrorCode != "" {
		apiErr.Code = payload.ErrorCode
	} else if len(payload.Code) > 0 {
		apiErr.Code = string(bytes.Trim(payload.Code, `"`))
	}
	return apiErr
}

// IsUniqueViolation reports whether err is the backend's uniqueness-violation
// signal for a row insert.
func IsUniqueViolation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == uniqueViolationCode || apiErr.StatusCode == http.StatusConflict
}

// IsUnauthorized reports whether the backend rejected the presented token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
