package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The provider connects server-to-server; there is no browser
	// origin to check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MediaStream accepts the provider's media stream connection and runs
// the session to completion. Each connection is its own goroutine under
// the HTTP server; sessions do not share state.
func (h *Handler) MediaStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	h.logger.Info("media stream connection accepted",
		zap.String("session_id", sessionID),
		zap.String("remote_addr", c.Request.RemoteAddr))

	if err := h.launcher.Handle(c.Request.Context(), conn); err != nil {
		// The session is abandoned, never resumed. The error is
		// already logged with call context by the launcher.
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session failed"))
	}
}
