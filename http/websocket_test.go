package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studenteval/db"
	"studenteval/form"
	"studenteval/ml"
	"studenteval/monitoring"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketFeedThroughMiddleware(t *testing.T) {
	store, err := db.NewStore(filepath.Join(t.TempDir(), "ws.db"))
	require.NoError(t, err)

	hub := monitoring.NewWebSocketHub(nil)
	go hub.Start()
	defer hub.Stop()

	controller := form.NewController(store, ml.NewTreeTrainer(0, nil), nil,
		form.WithChangeHook(func(e monitoring.ChangeEvent) {
			hub.Publish(monitoring.RecordsChanged, e)
		}))
	srv := httptest.NewServer(NewServer(DefaultServerConfig(), NewHandler(controller, hub, nil), nil, nil).Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(srv.URL+"/api/records", "application/json",
		strings.NewReader(`{"name":"Alice","attendance":90,"classwork":85,"socialization":70,"neatness":95}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg monitoring.Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, monitoring.RecordsChanged, msg.Type)
	var event monitoring.ChangeEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, "created", event.Action)
	assert.Equal(t, "Needs Improvement", event.Result)
}
