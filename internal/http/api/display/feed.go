// Package display exposes the surfaces a prayer screen consumes: the live
// alert feed plus pull endpoints for clients that just (re)connected.
package display

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Display clients connect from arbitrary origins (kiosk pages, local
	// files), so origin checking stays off.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type wsEnvelope struct {
	Action  string              `json:"action"`
	Payload *model.AlertPayload `json:"payload,omitempty"`
}

// Hub fans dispatched alerts out to every connected WebSocket client. It is
// registered as one of the dispatcher's pushers.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]chan wsEnvelope
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]chan wsEnvelope)}
}

// PushAlert broadcasts a freshly dispatched alert. Slow clients are dropped
// rather than blocking the dispatch path.
func (h *Hub) PushAlert(payload model.AlertPayload, ttl time.Duration) {
	h.broadcast(wsEnvelope{Action: payload.Action, Payload: &payload})
}

// AlertClosed broadcasts a dismissal so every surface hides the alert.
func (h *Hub) AlertClosed() {
	h.broadcast(wsEnvelope{Action: "ALERT_CLOSED"})
}

func (h *Hub) broadcast(env wsEnvelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.conns {
		select {
		case send <- env:
		default:
			log.Warn().Str("client", conn.RemoteAddr().String()).Msg("feed client too slow, dropping")
			close(send)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}

// ClientCount reports connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Handler upgrades the connection and streams alert events until the client
// goes away.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Msg("feed upgrade failed")
			return
		}

		send := make(chan wsEnvelope, 8)
		h.mu.Lock()
		h.conns[conn] = send
		h.mu.Unlock()
		log.Info().
			Str("client", conn.RemoteAddr().String()).
			Int("clients", h.ClientCount()).
			Msg("feed client connected")

		go h.writeLoop(conn, send)
		h.readLoop(conn, send)
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, send chan wsEnvelope) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop discards inbound frames; the feed is one-way. It exists to notice
// the close handshake and unregister the client.
func (h *Hub) readLoop(conn *websocket.Conn, send chan wsEnvelope) {
	defer func() {
		h.mu.Lock()
		if _, ok := h.conns[conn]; ok {
			close(send)
			delete(h.conns, conn)
		}
		h.mu.Unlock()
		conn.Close()
		log.Info().
			Str("client", conn.RemoteAddr().String()).
			Int("clients", h.ClientCount()).
			Msg("feed client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
