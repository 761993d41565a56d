package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/community/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// JSONResponseAs decodes the recorded body into T.
func JSONResponseAs[T any](t *testing.T, body []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body, &out), "Failed to decode response: %s", string(body))
	return out
}

// AssertErrorResponse checks the body is an error envelope with the code.
func AssertErrorResponse(t *testing.T, body []byte, expectedCode string) dto.Response {
	t.Helper()

	resp := JSONResponseAs[dto.Response](t, body)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error, "Expected error info in response")
	assert.Equal(t, expectedCode, resp.Error.Code)
	return resp
}

// AssertFieldError checks the validation details name the field.
func AssertFieldError(t *testing.T, body []byte, field string) {
	t.Helper()

	resp := AssertErrorResponse(t, body, dto.ErrCodeValidation)
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.Contains(t, fields, field)
}

// ToJSONReader marshals v into a reader for request bodies.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	switch b := v.(type) {
	case nil:
		return nil
	case string:
		return bytes.NewReader([]byte(b))
	case []byte:
		return bytes.NewReader(b)
	}
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal request body")
	return bytes.NewReader(data)
}
