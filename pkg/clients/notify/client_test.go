package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/cctvstore/internal/config"
)

func TestSendText(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(config.NotifyConfig{WebhookURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	require.NoError(t, client.SendText(context.Background(), "3 orders today"))
	assert.Equal(t, "3 orders today", got.Text)
}

func TestSendTextNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	client, err := NewClient(config.NotifyConfig{WebhookURL: srv.URL})
	require.NoError(t, err)

	err = client.SendText(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=403")
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(config.NotifyConfig{})
	assert.Error(t, err)
}
