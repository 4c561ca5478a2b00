package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// wsMessage はブラウザに送る状態変化の通知です。state は常に最新のスナップショットです。
type wsMessage struct {
	Type     string    `json:"type"`
	Dish     string    `json:"dish,omitempty"`
	Revision uint64    `json:"revision"`
	State    stateView `json:"state"`
}

type wsClient struct {
	conn        *websocket.Conn
	orch        *orchestrator.Orchestrator
	events      <-chan orchestrator.Event
	unsubscribe func()
}

// ServeWS はセッションの状態変化を WebSocket で配信します。
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	o, cookie, err := h.resolveSession(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not start a session")
		return
	}
	header := http.Header{}
	if cookie != nil {
		header.Add("Set-Cookie", cookie.String())
	}

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		slog.Warn("WebSocket upgrade error", "error", err)
		return
	}

	events, unsubscribe := o.Subscribe()
	c := &wsClient{conn: conn, orch: o, events: events, unsubscribe: unsubscribe}

	go c.writePump()
	go c.readPump()
}

// readPump は切断を検知するためだけに受信を続けます。
func (c *wsClient) readPump() {
	defer func() {
		c.unsubscribe()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	if err := c.write(wsMessage{Type: "hello"}); err != nil {
		return
	}

	for {
		select {
		case ev, ok := <-c.events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(wsMessage{Type: string(ev.Kind), Dish: ev.Dish}); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) write(msg wsMessage) error {
	snap := c.orch.Snapshot()
	msg.Revision = snap.Revision
	msg.State = newStateView(snap)
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}
