package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/tillbook/internal/config"
)

func TestSendTextMessage(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer server.Close()

	c := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "12345", BaseURL: server.URL + "/", APIVersion: "v20.0"})

	resp, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "4917", Body: "Session closed"})
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", resp.MessageID())
	assert.Equal(t, "4917", body["to"])
	assert.Equal(t, "text", body["type"])
	assert.Equal(t, "Session closed", body["text"].(map[string]any)["body"])
}

func TestSendTextMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100,"fbtrace_id":"trace-1"}}`))
	}))
	defer server.Close()

	c := NewClient(config.WhatsAppConfig{AccessToken: "token", PhoneNumberID: "12345", BaseURL: server.URL, APIVersion: "v20.0"})

	_, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "4917", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=100")
	assert.Contains(t, err.Error(), "trace=trace-1")

	_, err = c.SendTextMessage(context.Background(), SendTextMessageRequest{Body: "hi"})
	assert.Error(t, err)
}
