package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_Send(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBaseURL("bot-token", server.URL)
	err := n.Send(context.Background(), 12345, "Bob settled your dinner debt")
	require.NoError(t, err)

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, float64(12345), gotBody["chat_id"])
	assert.Equal(t, "Bob settled your dinner debt", gotBody["text"])
}

func TestTelegramNotifier_SendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := NewTelegramNotifierWithBaseURL("bot-token", server.URL)
	err := n.Send(context.Background(), 12345, "hello")
	require.Error(t, err)
}

func TestNoop_Send(t *testing.T) {
	assert.NoError(t, Noop{}.Send(context.Background(), 0, "dropped"))
}
