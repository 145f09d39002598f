package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidPathIDReturnsErrorEnvelope(t *testing.T) {
	h := NewHandler(slog.Default(), nil, nil, nil)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/stores/not-a-number")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Equal(t, "Bad Request", body.Error)
	assert.Equal(t, "/api/stores/not-a-number", body.Path)
	assert.Contains(t, body.Message, "storeId")
	assert.False(t, body.Timestamp.IsZero())
}

func TestMalformedBodyReturnsBadRequest(t *testing.T) {
	h := NewHandler(slog.Default(), nil, nil, nil)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/stores", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
