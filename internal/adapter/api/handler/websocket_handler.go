package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"ratpatrol/internal/adapter/api/middleware"
	ws "ratpatrol/internal/infrastructure/websocket"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only public data.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		c.Logger().Debug(err)
		return nil
	}

	h.wsManager.Serve(conn, middleware.UserID(c))
	return nil
}
