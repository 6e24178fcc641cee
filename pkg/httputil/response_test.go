package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, WriteSuccess(rr, map[string]string{"hello": "world"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestWriteDetailedError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteDetailedError(rr, http.StatusBadRequest, errors.New("Insufficient balance"), map[string]float64{
		"required":  29.99,
		"available": 10.00,
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Insufficient balance", resp.Error)
	assert.InDelta(t, 29.99, resp.Details["required"], 1e-9)
}

func TestParseJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{"amount": 5}`)))

	var dest struct {
		Amount float64 `json:"amount"`
	}
	require.NoError(t, ParseJSON(req, &dest))
	assert.InDelta(t, 5.0, dest.Amount, 1e-9)

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{broken")))
	assert.Error(t, ParseJSON(req, &dest))
}

func TestRequireNonEmpty(t *testing.T) {
	rr := httptest.NewRecorder()
	assert.True(t, RequireNonEmpty(rr, "value", "name"))

	rr = httptest.NewRecorder()
	assert.False(t, RequireNonEmpty(rr, "", "name"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "name is required")
}
