package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"booth_dashboard"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Upgrader for HTTP -> WebSocket. The dashboard is served from other origins
// on the plant network.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn serializes writes from the frame sender and the pinger.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// @Summary      WebSocket stream
// @Description  Same frames as /stream, one JSON text message per poll.
// @Tags         booth
// @Success      101
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// A hijacked connection does not cancel the request context, so the
	// reader is what notices the client leaving.
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	done := make(chan struct{})
	go h.startReader(conn, done)
	go func() {
		<-done
		cancel()
	}()

	ws := &wsConn{conn: conn}
	go h.startPinger(ctx, ws, cancel)

	err = h.services.Stream.Subscribe(ctx, c.ClientIP(), func(frame booth_dashboard.StreamFrame) error {
		return ws.writeJSON(frame)
	})
	if err != nil && h.log != nil {
		h.log.Infow("ws_write_failed", "err", err)
	}
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: startPinger keeps the connection alive until ctx ends; a failed
// ping cancels the stream.
func (h *Handler) startPinger(ctx context.Context, ws *wsConn, cancel context.CancelFunc) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := ws.ping(); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				cancel()
				return
			}
		}
	}
}
