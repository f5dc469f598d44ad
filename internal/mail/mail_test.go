package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	code := NewCode()
	assert.Len(t, code, 8)
	assert.NotEqual(t, code, NewCode(), "codes must not repeat")
}

func TestHTTPSenderSend(t *testing.T) {
	var got sendRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sender := NewHTTPSender("test-key", "bot@blackjack")
	sender.url = server.URL

	err := sender.Send(context.Background(), "player@example.com", "aabbccdd")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "bot@blackjack", got.From.Email)
	require.Len(t, got.Personalizations, 1)
	require.Len(t, got.Personalizations[0].To, 1)
	assert.Equal(t, "player@example.com", got.Personalizations[0].To[0].Email)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "aabbccdd", got.Content[0].Value)
}

func TestHTTPSenderRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sender := NewHTTPSender("bad-key", "bot@blackjack")
	sender.url = server.URL

	err := sender.Send(context.Background(), "player@example.com", "aabbccdd")
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	sender := NewLogSender(log.New(io.Discard))
	assert.NoError(t, sender.Send(context.Background(), "player@example.com", "aabbccdd"))
}
