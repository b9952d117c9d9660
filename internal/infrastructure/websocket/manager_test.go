package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratpatrol/internal/domain/entity"
	"ratpatrol/pkg/logger"
)

func startManager(t *testing.T) (*Manager, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	m := NewManager(logger.Nop())
	m.Start(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		m.Serve(conn, r.URL.Query().Get("user"))
	}))
	t.Cleanup(srv.Close)
	return m, srv
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg WSMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestManager_BroadcastsReportEvents(t *testing.T) {
	m, srv := startManager(t)

	first := dial(t, srv, "user-1")
	second := dial(t, srv, "user-2")
	require.Eventually(t, func() bool { return m.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	m.Publish(entity.ReportEvent{
		Type:      entity.EventReportReviewed,
		ReportID:  "report-1",
		ActorID:   "user-3",
		Timestamp: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	})

	for _, conn := range []*websocket.Conn{first, second} {
		msg := readMessage(t, conn)
		assert.Equal(t, string(entity.EventReportReviewed), msg.Type)
		assert.Equal(t, "2025-06-01T12:00:00Z", msg.Timestamp)

		data, ok := msg.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "report-1", data["reportId"])
	}
}

func TestManager_AnswersPing(t *testing.T) {
	m, srv := startManager(t)
	conn := dial(t, srv, "user-1")
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, MessageTypePong, readMessage(t, conn).Type)
}

func TestManager_UnregistersClosedClients(t *testing.T) {
	m, srv := startManager(t)
	conn := dial(t, srv, "user-1")
	require.Eventually(t, func() bool { return m.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return m.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandleClientMessage_IgnoresOtherFrames(t *testing.T) {
	assert.Nil(t, handleClientMessage([]byte(`not json`)))
	assert.Nil(t, handleClientMessage([]byte(`{"type":"subscribe"}`)))
}
