package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the JSON response envelope of the API
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// APIClient sends JSON requests to an in-process handler
type APIClient struct {
	Handler http.Handler
	// Token is sent as a bearer token when set
	Token string
	// BasePath is prefixed to every request path
	BasePath string
}

// NewAPIClient creates a client for the engine mounted at basePath
func NewAPIClient(handler http.Handler, basePath string) *APIClient {
	return &APIClient{Handler: handler, BasePath: basePath}
}

// As returns a copy of the client that authenticates with token
func (c *APIClient) As(token string) *APIClient {
	clone := *c
	clone.Token = token
	return &clone
}

// Do performs a request. body is marshalled to JSON unless it is nil.
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, c.BasePath+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	rec := httptest.NewRecorder()
	c.Handler.ServeHTTP(rec, req)
	return rec
}

// Decode parses the envelope of a response
func Decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "Failed to parse response: %s", rec.Body.String())
	return env
}

// DecodeData checks the response status and parses its data field into T
func DecodeData[T any](t *testing.T, rec *httptest.ResponseRecorder, status int) T {
	t.Helper()

	require.Equal(t, status, rec.Code, "Unexpected status, body: %s", rec.Body.String())
	env := Decode(t, rec)
	require.True(t, env.Success, "Expected a successful response")

	var data T
	require.NoError(t, json.Unmarshal(env.Data, &data), "Failed to parse response data")
	return data
}

// AssertError checks the status and the error code of a failed response
func AssertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, rec.Code, "Unexpected status, body: %s", rec.Body.String())
	env := Decode(t, rec)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error, "Expected an error object") {
		assert.Equal(t, code, env.Error.Code)
	}
}
