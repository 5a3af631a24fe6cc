package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourlog/internal/auth"
	"tourlog/internal/model"
)

func newServer(t *testing.T) (*httptest.Server, *Hub, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "ws-secret"})
	require.NoError(t, err)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", ServeWs(hub, tokens))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub, tokens
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func TestServeWs_RejectsBadTokens(t *testing.T) {
	srv, _, _ := newServer(t)

	_, resp, err := gws.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = gws.DefaultDialer.Dial(wsURL(srv, "forged"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_BroadcastsPublishedEvents(t *testing.T) {
	srv, hub, tokens := newServer(t)
	token, err := tokens.Issue(&model.User{ID: uuid.New(), Username: "viewer", Role: model.RoleUser})
	require.NoError(t, err)

	conn, _, err := gws.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("record.deleted", map[string]string{"id": "42"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "record.deleted", msg.Event)
	assert.Equal(t, "42", msg.Data["id"])
}

func TestHub_PublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish("noop", i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	finished := make(chan bool, 1)
	go func() {
		hub.leave(&Client{Hub: hub})
		finished <- hub.join(&Client{Hub: hub, Send: make(chan []byte, 1)})
	}()

	select {
	case joined := <-finished:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("hub channels still blocked after Run returned")
	}
}
