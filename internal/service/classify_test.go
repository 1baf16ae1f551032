package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, raw string) any {
	t.Helper()
	var body any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestClassify(t *testing.T) {
	t.Run("plain payload is a success", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"brand":"Apple","model":"iPhone 13"}`))

		assert.True(t, outcome.Success)
		assert.Empty(t, outcome.Message)
		assert.NotNil(t, outcome.Payload)
	})

	t.Run("truthy error field is a failure", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"error":"invalid key"}`))

		assert.False(t, outcome.Success)
		assert.Equal(t, "invalid key", outcome.Message)
	})

	t.Run("falsy error field is not a failure", func(t *testing.T) {
		for _, raw := range []string{
			`{"error":false,"brand":"Apple"}`,
			`{"error":"","brand":"Apple"}`,
			`{"error":null,"brand":"Apple"}`,
			`{"error":0,"brand":"Apple"}`,
		} {
			outcome := Classify(decodeBody(t, raw))
			assert.True(t, outcome.Success, "body %s should classify as success", raw)
		}
	})

	t.Run("failed status with message", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"status":"failed","message":"IMEI not found"}`))

		assert.False(t, outcome.Success)
		assert.Equal(t, "IMEI not found", outcome.Message)
	})

	t.Run("failed status without message falls back", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"status":"failed"}`))

		assert.False(t, outcome.Success)
		assert.Equal(t, "Unknown Key Error", outcome.Message)
	})

	t.Run("failed status with empty message falls back", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"status":"failed","message":""}`))

		assert.False(t, outcome.Success)
		assert.Equal(t, "Unknown Key Error", outcome.Message)
	})

	t.Run("other status values succeed", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"status":"done","result":{}}`))

		assert.True(t, outcome.Success)
	})

	t.Run("non-string error is stringified", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `{"error":true}`))

		assert.False(t, outcome.Success)
		assert.Equal(t, "true", outcome.Message)
	})

	t.Run("array body is a success", func(t *testing.T) {
		outcome := Classify(decodeBody(t, `[{"brand":"Apple"}]`))

		assert.True(t, outcome.Success)
	})
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(""))
	assert.False(t, truthy(float64(0)))
	assert.False(t, truthy(map[string]any{}))
	assert.False(t, truthy([]any{}))

	assert.True(t, truthy(true))
	assert.True(t, truthy("x"))
	assert.True(t, truthy(float64(1)))
	assert.True(t, truthy(map[string]any{"k": "v"}))
	assert.True(t, truthy([]any{1}))
}
