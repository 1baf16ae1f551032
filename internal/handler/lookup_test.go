package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postLookup(t *testing.T, h *LookupHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lookup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)
	return rec
}

func TestLookupHandlerValidation(t *testing.T) {
	h := NewLookupHandler(nil)

	t.Run("rejects malformed JSON", func(t *testing.T) {
		rec := postLookup(t, h, `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "VALIDATION_ERROR", resp["code"])
	})

	t.Run("rejects missing user_id", func(t *testing.T) {
		rec := postLookup(t, h, `{"service":"basic-check","imei":"353247104309572"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "MISSING_REQUIRED", resp["code"])
	})
}

func TestParsePagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		p := ParsePagination(req)
		assert.Equal(t, DefaultLimit, p.Limit)
		assert.Zero(t, p.Offset)
	})

	t.Run("caps limit and floors offset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x?limit=5000&offset=-3", nil)
		p := ParsePagination(req)
		assert.Equal(t, DefaultLimit, p.Limit)
		assert.Zero(t, p.Offset)
	})

	t.Run("passes valid values through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x?limit=20&offset=40", nil)
		p := ParsePagination(req)
		assert.Equal(t, 20, p.Limit)
		assert.Equal(t, 40, p.Offset)
	})
}
