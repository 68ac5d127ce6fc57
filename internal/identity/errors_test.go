package identity

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAPIError(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "auth dialect with msg",
			status:      400,
			body:        `{"error_code":"invalid_credentials","msg":"Invalid login credentials"}`,
			wantCode:    "invalid_credentials",
			wantMessage: "Invalid login credentials",
		},
		{
			name:        "row storage dialect with string code",
			status:      409,
			body:        `{"code":"23505","message":"duplicate key value violates unique constraint"}`,
			wantCode:    "23505",
			wantMessage: "duplicate key value violates unique constraint",
		},
		{
			name:        "numeric code",
			status:      404,
			body:        `{"code":404,"message":"relation does not exist"}`,
			wantCode:    "404",
			wantMessage: "relation does not exist",
		},
		{
			name:        "oauth style error_description",
			status:      400,
			body:        `{"error":"invalid_grant","error_description":"Token has expired"}`,
			wantCode:    "",
			wantMessage: "Token has expired",
		},
		{
			name:        "unparseable body falls back to status text",
			status:      502,
			body:        `<html>Bad Gateway</html>`,
			wantCode:    "",
			wantMessage: "Bad Gateway",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := decodeAPIError(tc.status, []byte(tc.body))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.wantCode, apiErr.Code)
			assert.Equal(t, tc.wantMessage, apiErr.Message)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&APIError{StatusCode: 400, Code: "23505"}))
	assert.True(t, IsUniqueViolation(&APIError{StatusCode: http.StatusConflict}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert failed: %w", &APIError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&APIError{StatusCode: 400, Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsUnauthorized(errors.New("plain error")))
}
