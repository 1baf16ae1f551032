package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPreferredMethod(t *testing.T) {
	tests := []struct {
		endpoint string
		method   string
	}{
		{"https://imei.info/api/check", http.MethodPost},
		{"https://www.imei.info/api/check", http.MethodPost},
		{"https://imeicheck.net/v1/lookup", http.MethodPost},
		{"https://api.example.com/lookup", http.MethodGet},
		{"://not a url", http.MethodGet},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.method, preferredMethod(tt.endpoint), "endpoint %s", tt.endpoint)
	}
}

func TestProviderGatewayCall(t *testing.T) {
	t.Run("GET sends credentials as query params and headers", func(t *testing.T) {
		var captured *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Clone(r.Context())
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"brand":"Apple"}`))
		}))
		defer server.Close()

		gw := NewProviderGatewayWithClient(server.Client())
		resp, err := gw.Call(context.Background(), server.URL, strPtr("s3cret"), "123456789012345")

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotNil(t, resp.Body)

		require.NotNil(t, captured)
		assert.Equal(t, http.MethodGet, captured.Method)
		q := captured.URL.Query()
		assert.Equal(t, "123456789012345", q.Get("imei"))
		assert.Equal(t, "s3cret", q.Get("apikey"))
		assert.Equal(t, "s3cret", q.Get("key"))
		assert.Equal(t, "s3cret", q.Get("token"))
		assert.Equal(t, "Bearer s3cret", captured.Header.Get("Authorization"))
		assert.Equal(t, "s3cret", captured.Header.Get("key"))
		assert.Equal(t, "LookupGateway/1.0", captured.Header.Get("User-Agent"))
	})

	t.Run("no credential fields without a secret", func(t *testing.T) {
		var captured *http.Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = r.Clone(r.Context())
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		gw := NewProviderGatewayWithClient(server.Client())
		_, err := gw.Call(context.Background(), server.URL, nil, "42")

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Empty(t, captured.URL.Query().Get("apikey"))
		assert.Empty(t, captured.Header.Get("Authorization"))
	})

	t.Run("retries once with swapped method on 405", func(t *testing.T) {
		var methods []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method)
			if r.Method == http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "42", body["imei"])
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		gw := NewProviderGatewayWithClient(server.Client())
		resp, err := gw.Call(context.Background(), server.URL, nil, "42")

		require.NoError(t, err)
		assert.Equal(t, []string{http.MethodGet, http.MethodPost}, methods)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("405 on both methods gives up after two attempts", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusMethodNotAllowed)
		}))
		defer server.Close()

		gw := NewProviderGatewayWithClient(server.Client())
		resp, err := gw.Call(context.Background(), server.URL, nil, "42")

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("non-JSON body leaves Body nil and keeps Raw", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer server.Close()

		gw := NewProviderGatewayWithClient(server.Client())
		resp, err := gw.Call(context.Background(), server.URL, nil, "42")

		require.NoError(t, err)
		assert.Nil(t, resp.Body)
		assert.Equal(t, "<html>gateway timeout</html>", resp.Raw)
	})

	t.Run("unreachable provider returns an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := server.Client()
		server.Close()

		gw := NewProviderGatewayWithClient(client)
		resp, err := gw.Call(context.Background(), server.URL, nil, "42")

		assert.Nil(t, resp)
		require.Error(t, err)
	})
}
