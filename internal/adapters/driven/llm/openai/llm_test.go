package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaide-labs/plaide-cli/internal/core/ports/driven"
)

func TestComplete_SendsZeroTemperatureExplicitly(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	g, err := New(Config{APIKey: "test", BaseURL: server.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	got, err := g.Complete(context.Background(), "question", driven.GenerateOptions{
		MaxTokens:   100,
		Temperature: 0,
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)

	// The field must be present in the payload even at zero, otherwise
	// the provider substitutes its own default.
	temp, present := captured["temperature"]
	require.True(t, present)
	assert.Equal(t, float64(0), temp)
}

func TestComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	}))
	defer server.Close()

	g, err := New(Config{APIKey: "bad", BaseURL: server.URL, RequestsPerSecond: 1000})
	require.NoError(t, err)

	_, err = g.Complete(context.Background(), "question", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})

	assert.Error(t, err)
}
