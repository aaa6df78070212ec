package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 512
)

// Client is one websocket connection.  readPump handles join/leave frames and
// heartbeats; writePump drains the send buffer built by Hub.Broadcast.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
}

// clientFrame is what browsers send: an action plus the brand room to act on.
type clientFrame struct {
	Action  string `json:"action"`
	BrandID string `json:"brandId"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(msg, &frame); err != nil || frame.BrandID == "" {
			continue
		}
		switch frame.Action {
		case "join_brand":
			c.hub.Join(BrandRoom(frame.BrandID), c)
		case "leave_brand":
			c.hub.Leave(BrandRoom(frame.BrandID), c)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// ServeWS returns the Echo handler that upgrades /ws connections and attaches
// them to the hub.  clientURL restricts the browser origin; an empty value
// allows all origins (dev mode).
func ServeWS(hub *Hub, clientURL string) echo.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if clientURL == "" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || origin == clientURL
		},
	}

	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			log.Printf("realtime: upgrade failed: %v", err)
			return nil
		}
		client := &Client{
			hub:   hub,
			conn:  conn,
			send:  make(chan []byte, 256),
			rooms: make(map[string]struct{}),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
		return nil
	}
}
